package feed

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/pet-comb/app/database"
)

type fakePetRepo struct {
	pets   []database.Pet
	prefix string
}

func (f *fakePetRepo) MergeBatch(ctx context.Context, records []database.PetRecord, at time.Time) (int, int, error) {
	return 0, 0, nil
}

func (f *fakePetRepo) MarkRejected(ctx context.Context, id int64, at time.Time) error {
	return nil
}

func (f *fakePetRepo) GetActivePets(ctx context.Context, regionPrefix string) ([]database.Pet, error) {
	f.prefix = regionPrefix
	return f.pets, nil
}

func (f *fakePetRepo) GetPetCount(ctx context.Context) (int, error) {
	return len(f.pets), nil
}

func (f *fakePetRepo) GetPetStats(ctx context.Context) (int, int, int, error) {
	return len(f.pets), len(f.pets), 0, nil
}

func TestFilterPhotos(t *testing.T) {
	content := map[string]any{
		"media": map[string]any{
			"photos": []any{
				"http://example.com/1.jpg?&width=500&x=1",
				"http://example.com/2.jpg?&width=60&x=1",
				"http://example.com/3.jpg",
				float64(42),
			},
		},
	}

	filterPhotos(content)

	got := content["media"].(map[string]any)["photos"]
	want := []any{"http://example.com/1.jpg?&width=500&x=1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected only large photos to survive, got %v", got)
	}
}

func TestFilterPhotosMissingMedia(t *testing.T) {
	content := map[string]any{"name": "Rex"}
	filterPhotos(content)

	if _, ok := content["media"]; ok {
		t.Error("Expected content without media to stay untouched")
	}
}

func TestTruncateDescriptionBoundary(t *testing.T) {
	exact := strings.Repeat("a", 120)
	content := map[string]any{"description": exact}
	truncateDescription(content)
	if content["description"] != exact {
		t.Error("Expected description of exactly 120 characters to stay unchanged")
	}

	over := strings.Repeat("a", 121)
	content = map[string]any{"description": over}
	truncateDescription(content)
	want := strings.Repeat("a", 120) + "..."
	if content["description"] != want {
		t.Errorf("Expected 121-character description truncated to 120 plus ellipsis, got %q", content["description"])
	}
}

func TestTruncateDescriptionCountsRunes(t *testing.T) {
	over := strings.Repeat("ü", 121)
	content := map[string]any{"description": over}
	truncateDescription(content)
	want := strings.Repeat("ü", 120) + "..."
	if content["description"] != want {
		t.Errorf("Expected rune-based truncation, got %q", content["description"])
	}
}

func TestViewRun(t *testing.T) {
	repo := &fakePetRepo{pets: []database.Pet{
		{ID: 1, Blob: `{"id":"1","shelterId":"CA045","description":"friendly","media":{"photos":["a?&width=500&","b?&width=60&"]},"breeds":["Labrador"]}`},
		{ID: 2, Blob: `{"id":"2","shelterId":"CA046","description":"grumpy","breeds":["Chihuahua"]}`},
	}}

	view := NewView(repo, &Config{
		StateAbbrev: "CA",
		Filters: []ConfigFilter{
			{Field: "breeds", Excludes: []string{"chihuahua"}},
		},
	})

	listings, err := view.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if repo.prefix != "CA" {
		t.Errorf("Expected region prefix 'CA' passed to repository, got '%s'", repo.prefix)
	}
	if len(listings) != 1 {
		t.Fatalf("Expected 1 listing after exclude filter, got %d", len(listings))
	}
	if listings[0]["id"] != "1" {
		t.Errorf("Expected listing 1, got %v", listings[0]["id"])
	}

	photos := listings[0]["media"].(map[string]any)["photos"].([]any)
	if len(photos) != 1 || photos[0] != "a?&width=500&" {
		t.Errorf("Expected only the large photo, got %v", photos)
	}
}

func TestViewRunBadBlob(t *testing.T) {
	repo := &fakePetRepo{pets: []database.Pet{{ID: 1, Blob: "not json"}}}
	view := NewView(repo, &Config{StateAbbrev: "CA"})

	if _, err := view.Run(context.Background()); err == nil {
		t.Error("Expected error for undecodable stored blob")
	}
}
