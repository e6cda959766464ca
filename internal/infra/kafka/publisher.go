package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/FrancoTaaber/photos-api/internal/core/domain"
	"github.com/FrancoTaaber/photos-api/internal/core/port"
)

// ChangePublisher implements port.ChangePublisher on Kafka. The message body
// is the photo's full state and nothing else; the payload does not say which
// operation produced it. Event metadata travels in record headers.
type ChangePublisher struct {
	producer *Producer
	logger   *zap.Logger
}

// NewChangePublisher constructs a Kafka-backed change publisher.
func NewChangePublisher(producer *Producer, logger *zap.Logger) *ChangePublisher {
	return &ChangePublisher{producer: producer, logger: logger}
}

type photoState struct {
	ID          int     `json:"id"`
	Auth        string  `json:"auth"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// PublishPhotoChanged sends the photo state to the change topic, keyed by
// photo id so changes to one record stay ordered within a partition.
func (p *ChangePublisher) PublishPhotoChanged(ctx context.Context, event domain.PhotoChangedEvent) error {
	state := photoState{
		ID:          event.Photo.ID,
		Auth:        event.Photo.Auth,
		Title:       event.Photo.Title,
		URL:         event.Photo.URL,
		Description: event.Photo.Description,
		CreatedAt:   event.Photo.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   event.Photo.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	bytes, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal photo state: %w", err)
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.Topic(),
		Key:   sarama.StringEncoder(strconv.Itoa(event.Photo.ID)),
		Value: sarama.ByteEncoder(bytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_id"), Value: []byte(event.EventID)},
			{Key: []byte("occurred_at"), Value: []byte(occurredAt.UTC().Format(time.RFC3339Nano))},
		},
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ port.ChangePublisher = (*ChangePublisher)(nil)
