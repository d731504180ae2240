package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/pet-comb/app/database"
)

// Syncer runs one refresh cycle: fetch, normalize, project, merge. The
// merge itself is a single repository transaction, so a failed refresh
// leaves the cache exactly as it was.
type Syncer struct {
	fetcher    Fetcher
	normalizer *Normalizer
	extractor  *Extractor
	petRepo    database.PetRepository
	mu         sync.Mutex
}

func NewSyncer(fetcher Fetcher, petRepo database.PetRepository) *Syncer {
	return &Syncer{
		fetcher:    fetcher,
		normalizer: NewNormalizer(),
		extractor:  NewExtractor(),
		petRepo:    petRepo,
	}
}

// Run executes one refresh. At most one refresh mutates the store at a
// time; a concurrent call returns ErrRefreshInProgress instead of
// blocking.
func (s *Syncer) Run(ctx context.Context) (*RefreshResult, error) {
	if !s.mu.TryLock() {
		return nil, ErrRefreshInProgress
	}
	defer s.mu.Unlock()

	data, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}

	listings, err := s.extractor.Run(s.normalizer.Run(doc))
	if err != nil {
		return nil, err
	}

	records := make([]database.PetRecord, 0, len(listings))
	for _, listing := range listings {
		blob, err := json.Marshal(listing.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to encode listing %d: %w", listing.ID, err)
		}
		records = append(records, database.PetRecord{ID: listing.ID, Blob: string(blob)})
	}

	now := time.Now().UTC()
	inserted, touched, err := s.petRepo.MergeBatch(ctx, records, now)
	if err != nil {
		return nil, fmt.Errorf("failed to merge batch: %w", err)
	}

	slog.Debug("Refresh merged", "total", len(records), "new", inserted, "touched", touched)

	return &RefreshResult{
		Total:       len(records),
		New:         inserted,
		Touched:     touched,
		RefreshedAt: now,
	}, nil
}
