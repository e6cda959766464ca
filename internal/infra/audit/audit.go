package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/FrancoTaaber/photos-api/internal/core/domain"
	"github.com/FrancoTaaber/photos-api/internal/core/port"
	"github.com/FrancoTaaber/photos-api/internal/infra/logger"
)

// Recorder writes one structured audit entry per photo operation to the zap
// sink. It carries no per-request state and is shared across all requests.
type Recorder struct {
	logger *zap.Logger
}

// NewRecorder constructs a zap-backed audit log.
func NewRecorder(log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{logger: log.Named("audit")}
}

// Record emits the entry. Before/after snapshots are flattened into fields so
// the pre-edit and post-edit states stay queryable side by side.
func (r *Recorder) Record(ctx context.Context, entry domain.AuditEntry) {
	fields := []zap.Field{
		zap.String("action", entry.Action),
		zap.String("actor", entry.Actor),
		zap.String("origin", logger.MaskIP(entry.Origin)),
		zap.Time("timestamp", entry.Timestamp),
	}

	if requestID := logger.RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if entry.TraceID != "" {
		fields = append(fields, zap.String("trace_id", entry.TraceID))
	}
	if entry.PhotoID != 0 {
		fields = append(fields, zap.Int("photo_id", entry.PhotoID))
	}
	if entry.Before != nil {
		fields = append(fields, photoFields("before", *entry.Before)...)
	}
	if entry.After != nil {
		fields = append(fields, photoFields("after", *entry.After)...)
	}

	r.logger.Info("audit", fields...)
}

func photoFields(prefix string, photo domain.Photo) []zap.Field {
	fields := []zap.Field{
		zap.Int(prefix+"_id", photo.ID),
		zap.String(prefix+"_auth", photo.Auth),
		zap.String(prefix+"_title", photo.Title),
		zap.String(prefix+"_url", photo.URL),
	}
	if photo.Description != nil {
		fields = append(fields, zap.String(prefix+"_description", *photo.Description))
	}
	return fields
}

var _ port.AuditLog = (*Recorder)(nil)
