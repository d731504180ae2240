package feed

import (
	"encoding/json"
	"fmt"
)

// RawNode is one node of the provider's "XML as JSON" document tree.
// Exactly three shapes occur: a mapping of element and attribute names to
// child nodes, a sequence of repeated children, or a scalar leaf.
type RawNode interface {
	rawNode()
}

type Mapping map[string]RawNode

type Sequence []RawNode

type Scalar struct {
	Value any
}

func (Mapping) rawNode()  {}
func (Sequence) rawNode() {}
func (Scalar) rawNode()   {}

// textKey carries element text in the provider encoding. A node with text
// keeps only the text; sibling attribute keys are dropped.
const textKey = "$t"

// repeatableKeys are wrapper keys whose child is a repeated element. The
// provider omits the enclosing array when only one child is present, so a
// bare child is coerced into a one-element sequence. The order is a fixed
// priority: only the first key found is honored, any others are dropped.
var repeatableKeys = [...]string{"pet", "breed", "photo", "option"}

// FromJSON converts a decoded JSON value, as produced by encoding/json
// into any, to a RawNode tree.
func FromJSON(v any) RawNode {
	switch v := v.(type) {
	case map[string]any:
		m := make(Mapping, len(v))
		for k, child := range v {
			m[k] = FromJSON(child)
		}
		return m
	case []any:
		s := make(Sequence, 0, len(v))
		for _, child := range v {
			s = append(s, FromJSON(child))
		}
		return s
	default:
		return Scalar{Value: v}
	}
}

// DecodeDocument parses raw provider bytes into a RawNode tree.
func DecodeDocument(data []byte) (RawNode, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return FromJSON(v), nil
}

// Normalizer collapses the provider's tree encoding into plain values:
// mappings, sequences and scalars, with the encoding's wrapper shapes
// removed.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Run normalizes a RawNode tree, deepest nodes first. Scalars map to
// themselves and sequences to their normalized elements in order. A
// mapping is normalized value by value and then collapsed: an empty
// mapping becomes the empty string (a self-closing element), a mapping
// with text keeps only the text, and a mapping holding a repeatable
// wrapper key becomes that child coerced into a sequence. Anything else
// passes through as a plain mapping.
func (n *Normalizer) Run(node RawNode) any {
	switch node := node.(type) {
	case Scalar:
		return node.Value
	case Sequence:
		out := make([]any, 0, len(node))
		for _, child := range node {
			out = append(out, n.Run(child))
		}
		return out
	case Mapping:
		m := make(map[string]any, len(node))
		for k, child := range node {
			m[k] = n.Run(child)
		}
		if len(m) == 0 {
			return ""
		}
		if text, ok := m[textKey]; ok {
			return text
		}
		for _, k := range repeatableKeys {
			child, ok := m[k]
			if !ok {
				continue
			}
			if seq, ok := child.([]any); ok {
				return seq
			}
			return []any{child}
		}
		return m
	default:
		return nil
	}
}
