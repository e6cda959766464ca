package domain

import "time"

// PhotoChangedEvent carries the full state of a photo after a successful
// create or edit, or the pre-deletion snapshot after a delete. The payload
// carries no change-type marker; subscribers observe a removal by the id no
// longer resolving.
type PhotoChangedEvent struct {
	EventID    string
	Photo      Photo
	OccurredAt time.Time
}
