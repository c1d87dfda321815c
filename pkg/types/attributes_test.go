package types

import "testing"

func TestAttributesEqualOrderIndependent(t *testing.T) {
	t.Parallel()

	a := Attributes{"size": "XL", "color": "red"}
	b := Attributes{"color": "red", "size": "XL"}

	if !a.Equal(b) {
		t.Fatal("expected equal attribute sets")
	}
}

func TestAttributesEqualNumericTypes(t *testing.T) {
	t.Parallel()

	fromRequest := Attributes{"count": 2}
	fromDatabase := Attributes{"count": float64(2)}

	if !fromRequest.Equal(fromDatabase) {
		t.Fatal("int and float64 of the same value must compare equal")
	}
}

func TestAttributesEqualNilAndEmpty(t *testing.T) {
	t.Parallel()

	var nilAttrs Attributes
	empty := Attributes{}

	if !nilAttrs.Equal(empty) {
		t.Fatal("nil and empty attribute sets are the same variant")
	}
	if nilAttrs.Equal(Attributes{"gift": true}) {
		t.Fatal("nil must not equal a populated set")
	}
}

func TestAttributesEqualDifferentValues(t *testing.T) {
	t.Parallel()

	a := Attributes{"size": "XL"}
	b := Attributes{"size": "L"}

	if a.Equal(b) {
		t.Fatal("different values must not compare equal")
	}
}

func TestAttributesCloneDetached(t *testing.T) {
	t.Parallel()

	original := Attributes{"size": "XL"}
	clone := original.Clone()
	clone["size"] = "S"

	if original["size"] != "XL" {
		t.Fatal("mutating a clone must not touch the original")
	}
}
