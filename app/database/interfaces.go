package database

import (
	"context"
	"time"
)

type PetRepository interface {
	// MergeBatch reconciles one refresh batch against the cache in a
	// single transaction. Returns the number of newly inserted and of
	// touched (already known) listings.
	MergeBatch(ctx context.Context, records []PetRecord, at time.Time) (int, int, error)

	// MarkRejected sets the rejection marker on one listing. Unknown ids
	// are a no-op, not an error.
	MarkRejected(ctx context.Context, id int64, at time.Time) error

	// GetActivePets returns listings seen since the last refresh, not
	// rejected, whose shelter code starts with the given prefix. Order is
	// unspecified.
	GetActivePets(ctx context.Context, regionPrefix string) ([]Pet, error)

	GetPetCount(ctx context.Context) (int, error)
	GetPetStats(ctx context.Context) (total, active, rejected int, err error)
}

type StateRepository interface {
	// GetLastRefresh returns the refresh watermark. The second return is
	// false before the first successful refresh.
	GetLastRefresh(ctx context.Context) (time.Time, bool, error)

	SetLastRefresh(ctx context.Context, at time.Time) error
}
