package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/FrancoTaaber/photos-api/internal/core/domain"
	"github.com/FrancoTaaber/photos-api/internal/core/port"
)

// StubPublisher logs photo changes instead of sending them to Kafka. Used
// when no brokers are configured, so development runs still see broadcasts.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly change publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

// PublishPhotoChanged logs the photo state that would have been broadcast.
func (p *StubPublisher) PublishPhotoChanged(_ context.Context, event domain.PhotoChangedEvent) error {
	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	p.logger.Info("stub photo change published",
		zap.String("event_id", event.EventID),
		zap.Int("photo_id", event.Photo.ID),
		zap.String("title", event.Photo.Title),
		zap.String("auth", event.Photo.Auth),
		zap.Time("occurred_at", occurredAt.UTC()),
	)
	return nil
}

var _ port.ChangePublisher = (*StubPublisher)(nil)
