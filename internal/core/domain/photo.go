package domain

import "time"

// RoleAdmin names the role required to delete photos.
const RoleAdmin = "admin"

// Photo is a stored photo record. Auth holds the username of the owner, set
// once at creation and preserved across edits.
type Photo struct {
	ID          int
	Auth        string
	Title       string
	URL         string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy of the photo, including the optional description,
// so snapshots stay stable while the original keeps mutating.
func (p Photo) Clone() Photo {
	clone := p
	if p.Description != nil {
		description := *p.Description
		clone.Description = &description
	}
	return clone
}

// OwnedBy reports whether the photo belongs to the given principal. Photos
// without a recorded owner belong to nobody.
func (p Photo) OwnedBy(principal string) bool {
	return p.Auth != "" && p.Auth == principal
}
