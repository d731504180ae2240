package feed

import (
	"fmt"
	"math"
	"strconv"
)

// Extractor projects a normalized provider document into listings. The
// document is expected to nest a petfinder element holding a pets element;
// the normalizer has already coerced the pets children into a sequence.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Run(doc any) ([]Listing, error) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: document root is not a mapping", ErrMalformedFeed)
	}

	provider, ok := root["petfinder"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing petfinder element", ErrMalformedFeed)
	}

	switch pets := provider["pets"].(type) {
	case string:
		// A self-closing pets element normalizes to the empty string,
		// meaning an empty batch.
		if pets == "" {
			return []Listing{}, nil
		}
		return nil, fmt.Errorf("%w: unexpected pets value %q", ErrMalformedFeed, pets)
	case []any:
		listings := make([]Listing, 0, len(pets))
		for i, v := range pets {
			content, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: listing %d is not a mapping", ErrMalformedFeed, i)
			}
			id, err := parseID(content["id"])
			if err != nil {
				return nil, fmt.Errorf("%w: listing %d: %v", ErrMalformedFeed, i, err)
			}
			listings = append(listings, Listing{ID: id, Content: content})
		}
		return listings, nil
	case nil:
		return nil, fmt.Errorf("%w: missing pets element", ErrMalformedFeed)
	default:
		return nil, fmt.Errorf("%w: pets element has unexpected shape", ErrMalformedFeed)
	}
}

func parseID(v any) (int64, error) {
	switch v := v.(type) {
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("id %q does not parse as integer", v)
		}
		return id, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("id %v is not an integer", v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("id is missing or not a scalar")
	}
}
