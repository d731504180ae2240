package database

import (
	"time"
)

// Pet represents a cached listing row. Blob holds the listing content as
// it was first observed; only last_seen_at advances on re-sighting.
type Pet struct {
	ID         int64
	Blob       string
	CreatedAt  time.Time
	LastSeenAt time.Time
	RejectedAt *time.Time
}

// PetRecord is one staged listing in a refresh batch.
type PetRecord struct {
	ID   int64
	Blob string
}
