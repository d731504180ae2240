package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lysyi3m/pet-comb/app/database"
)

const (
	// largePhotoMarker identifies the large size variant in a photo URL.
	// Photos without the marker are dropped rather than shown unverified.
	largePhotoMarker = "&width=500&"

	descriptionLimit = 120
	ellipsis         = "..."
)

// View produces the currently active listing set with per-listing
// projection applied at read time. Stored blobs are never modified.
type View struct {
	petRepo database.PetRepository
	config  *Config
}

func NewView(petRepo database.PetRepository, config *Config) *View {
	return &View{
		petRepo: petRepo,
		config:  config,
	}
}

func (v *View) Run(ctx context.Context) ([]map[string]any, error) {
	pets, err := v.petRepo.GetActivePets(ctx, v.config.StateAbbrev)
	if err != nil {
		return nil, err
	}

	listings := make([]map[string]any, 0, len(pets))
	for _, pet := range pets {
		var content map[string]any
		if err := json.Unmarshal([]byte(pet.Blob), &content); err != nil {
			return nil, fmt.Errorf("failed to decode stored listing %d: %w", pet.ID, err)
		}

		if v.excluded(content) {
			continue
		}

		filterPhotos(content)
		truncateDescription(content)
		listings = append(listings, content)
	}

	return listings, nil
}

// filterPhotos retains only photo entries carrying the large size marker.
func filterPhotos(content map[string]any) {
	media, ok := content["media"].(map[string]any)
	if !ok {
		return
	}
	photos, ok := media["photos"].([]any)
	if !ok {
		return
	}

	kept := make([]any, 0, len(photos))
	for _, p := range photos {
		if s, ok := p.(string); ok && strings.Contains(s, largePhotoMarker) {
			kept = append(kept, s)
		}
	}
	media["photos"] = kept
}

func truncateDescription(content map[string]any) {
	description, ok := content["description"].(string)
	if !ok {
		return
	}

	runes := []rune(description)
	if len(runes) > descriptionLimit {
		content["description"] = string(runes[:descriptionLimit]) + ellipsis
	}
}

func (v *View) excluded(content map[string]any) bool {
	for _, filter := range v.config.Filters {
		value := fieldValue(content, filter.Field)
		for _, exclude := range filter.Excludes {
			if strings.Contains(strings.ToLower(value), strings.ToLower(exclude)) {
				return true
			}
		}
	}
	return false
}

func fieldValue(content map[string]any, field string) string {
	switch v := content[field].(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			if s, ok := elem.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
