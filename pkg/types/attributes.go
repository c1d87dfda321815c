package types

import (
	"encoding/json"
	"reflect"
)

// Attributes is the free-form key/value set attached to a basket line.
// A nil map is a valid "no attributes" value.
type Attributes map[string]any

// Equal reports whether two attribute sets describe the same line variant.
// Both sides are pushed through a JSON round-trip before comparison, so the
// result is independent of key order and of whether a value arrived as an
// int from a decoder or a float64 from the database serializer.
func (a Attributes) Equal(other Attributes) bool {
	if len(a) == 0 && len(other) == 0 {
		return true
	}
	left, ok := normalize(a)
	if !ok {
		return false
	}
	right, ok := normalize(other)
	if !ok {
		return false
	}
	return reflect.DeepEqual(left, right)
}

// Clone returns a deep copy, again via the JSON round-trip. Wrappers hand
// out clones so callers cannot mutate a persisted line in place.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	normalized, ok := normalize(a)
	if !ok {
		return nil
	}
	return normalized
}

func normalize(a Attributes) (map[string]any, bool) {
	if a == nil {
		return nil, true
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, false
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}
