package domain

import "time"

// AuditEntry records a single request against the photo store: who acted,
// where the request came from, and the entity state around the mutation.
// Before and After are nil for read-only operations.
type AuditEntry struct {
	Action    string
	Actor     string
	Origin    string
	TraceID   string
	PhotoID   int
	Before    *Photo
	After     *Photo
	Timestamp time.Time
}

// Audit action names, one per photo operation.
const (
	AuditActionList   = "photos.list"
	AuditActionCreate = "photos.create"
	AuditActionEdit   = "photos.edit"
	AuditActionDelete = "photos.delete"
)
