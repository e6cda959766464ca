package port

import (
	"context"

	"github.com/FrancoTaaber/photos-api/internal/core/domain"
)

// ChangePublisher announces photo state changes on the broadcast topic.
type ChangePublisher interface {
	PublishPhotoChanged(ctx context.Context, event domain.PhotoChangedEvent) error
}
