package feed

import (
	"context"
	"time"
)

// Listing is one normalized pet listing projected out of the provider
// document, keyed by its stable integer id.
type Listing struct {
	ID      int64
	Content map[string]any
}

// RefreshResult summarizes one completed refresh cycle.
type RefreshResult struct {
	Total       int
	New         int
	Touched     int
	RefreshedAt time.Time
}

// Fetcher retrieves the raw provider document. The HTTP client implements
// it; tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Configuration types

type Config struct {
	Params      map[string]string `yaml:"params"`
	StateAbbrev string            `yaml:"state_abbrev"`
	Settings    ConfigSettings    `yaml:"settings"`
	Filters     []ConfigFilter    `yaml:"filters"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	Timeout         int  `yaml:"timeout"`          // seconds
}

type ConfigFilter struct {
	Field    string   `yaml:"field"`
	Excludes []string `yaml:"excludes"`
}
