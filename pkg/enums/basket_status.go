package enums

import "fmt"

// BasketStatus tracks where a basket sits in its lifecycle. Destructive
// operations are only permitted while the basket is still active.
type BasketStatus string

const (
	BasketStatusActive    BasketStatus = "active"
	BasketStatusConverted BasketStatus = "converted"
	BasketStatusAbandoned BasketStatus = "abandoned"
)

var validBasketStatuses = []BasketStatus{
	BasketStatusActive,
	BasketStatusConverted,
	BasketStatusAbandoned,
}

// String implements fmt.Stringer.
func (s BasketStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known BasketStatus.
func (s BasketStatus) IsValid() bool {
	for _, candidate := range validBasketStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Mutable reports whether items and the basket itself may still be changed.
func (s BasketStatus) Mutable() bool {
	return s == BasketStatusActive
}

// ParseBasketStatus converts raw input into a BasketStatus.
func ParseBasketStatus(value string) (BasketStatus, error) {
	for _, candidate := range validBasketStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid basket status %q", value)
}
