package feed

import (
	"reflect"
	"testing"
)

func TestNormalizeScalar(t *testing.T) {
	n := NewNormalizer()

	cases := []any{"hello", float64(42), true, nil}
	for _, c := range cases {
		got := n.Run(FromJSON(c))
		if !reflect.DeepEqual(got, c) {
			t.Errorf("Expected scalar %v to normalize to itself, got %v", c, got)
		}
	}
}

func TestNormalizeIdempotentOnScalarsAndSequences(t *testing.T) {
	n := NewNormalizer()

	cases := []any{
		"hello",
		float64(7),
		[]any{"a", "b", "c"},
		[]any{float64(1), []any{float64(2), float64(3)}},
	}

	for _, c := range cases {
		once := n.Run(FromJSON(c))
		twice := n.Run(FromJSON(once))
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Expected normalization to be idempotent for %v: once %v, twice %v", c, once, twice)
		}
	}
}

func TestNormalizeSequencePreservesOrder(t *testing.T) {
	n := NewNormalizer()

	got := n.Run(FromJSON([]any{"first", "second", "third"}))
	want := []any{"first", "second", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestNormalizeEmptyMapping(t *testing.T) {
	n := NewNormalizer()

	got := n.Run(FromJSON(map[string]any{}))
	if got != "" {
		t.Errorf("Expected empty mapping to collapse to empty string, got %v", got)
	}
}

func TestNormalizeTextOverAttributes(t *testing.T) {
	n := NewNormalizer()

	got := n.Run(FromJSON(map[string]any{
		"$t":       "v",
		"encoding": "ignored",
	}))
	if got != "v" {
		t.Errorf("Expected text content to win over attributes, got %v", got)
	}
}

func TestNormalizeSingletonCoercion(t *testing.T) {
	n := NewNormalizer()

	got := n.Run(FromJSON(map[string]any{
		"pet": map[string]any{"a": float64(1)},
	}))
	want := []any{map[string]any{"a": float64(1)}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected bare child coerced to one-element sequence, got %v", got)
	}
}

func TestNormalizeSequencePassthrough(t *testing.T) {
	n := NewNormalizer()

	got := n.Run(FromJSON(map[string]any{
		"pet": []any{
			map[string]any{"a": float64(1)},
			map[string]any{"a": float64(2)},
		},
	}))
	want := []any{
		map[string]any{"a": float64(1)},
		map[string]any{"a": float64(2)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected sequence child to pass through unchanged, got %v", got)
	}
}

func TestNormalizeRepeatableKeyPriority(t *testing.T) {
	n := NewNormalizer()

	// A node carrying both "pet" and "photo" honors "pet" only.
	got := n.Run(FromJSON(map[string]any{
		"pet":   []any{"kept"},
		"photo": []any{"dropped"},
	}))
	want := []any{"kept"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected pet key to take priority over photo, got %v", got)
	}

	// Among the lower-priority keys, breed beats photo and option.
	got = n.Run(FromJSON(map[string]any{
		"option": []any{"dropped"},
		"breed":  []any{"kept"},
		"photo":  []any{"dropped"},
	}))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected breed key to take priority, got %v", got)
	}
}

func TestNormalizeNestedDocument(t *testing.T) {
	n := NewNormalizer()

	// A listing fragment the provider actually produces: every leaf is
	// wrapped in a "$t" mapping, breeds holds a bare child, and an empty
	// element appears as an empty mapping.
	doc := map[string]any{
		"id":        map[string]any{"$t": "123"},
		"shelterId": map[string]any{"$t": "CA045"},
		"name":      map[string]any{"$t": "Rex"},
		"mix":       map[string]any{},
		"breeds": map[string]any{
			"breed": map[string]any{"$t": "Labrador"},
		},
		"media": map[string]any{
			"photos": map[string]any{
				"photo": []any{
					map[string]any{"$t": "http://example.com/1.jpg", "size": "x"},
					map[string]any{"$t": "http://example.com/2.jpg", "size": "pn"},
				},
			},
		},
	}

	want := map[string]any{
		"id":        "123",
		"shelterId": "CA045",
		"name":      "Rex",
		"mix":       "",
		"breeds":    []any{"Labrador"},
		"media": map[string]any{
			"photos": []any{"http://example.com/1.jpg", "http://example.com/2.jpg"},
		},
	}

	got := n.Run(FromJSON(doc))
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDecodeDocument(t *testing.T) {
	node, err := DecodeDocument([]byte(`{"a": {"$t": "b"}}`))
	if err != nil {
		t.Fatal(err)
	}

	got := NewNormalizer().Run(node)
	want := map[string]any{"a": "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDecodeDocumentInvalid(t *testing.T) {
	_, err := DecodeDocument([]byte(`{not json`))
	if err == nil {
		t.Error("Expected error for invalid document data")
	}
}
