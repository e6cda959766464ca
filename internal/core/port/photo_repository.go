package port

import (
	"context"

	"github.com/FrancoTaaber/photos-api/internal/core/domain"
)

// PhotoRepository persists photo records keyed by integer identifier.
type PhotoRepository interface {
	// FindAll returns every stored photo in repository order.
	FindAll(ctx context.Context) ([]domain.Photo, error)
	// FindByID returns the photo with the given id or repository.ErrNotFound.
	FindByID(ctx context.Context, id int) (*domain.Photo, error)
	// Save inserts the photo when its ID is zero (assigning a fresh id on the
	// passed struct) and overwrites the record at the same id otherwise.
	Save(ctx context.Context, photo *domain.Photo) error
	// DeleteByID removes the record or returns repository.ErrNotFound.
	DeleteByID(ctx context.Context, id int) error
}
