package port

import (
	"context"

	"github.com/FrancoTaaber/photos-api/internal/core/domain"
)

// AuditLog records one structured entry per photo operation.
type AuditLog interface {
	Record(ctx context.Context, entry domain.AuditEntry)
}
