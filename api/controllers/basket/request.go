package basket

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBasketRequest opens a new basket. Currency falls back to the
// configured default; fingerprint falls back to the request User-Agent and
// is ignored for authenticated callers.
type CreateBasketRequest struct {
	Currency    string `json:"currency" validate:"omitempty,oneof=USD EUR GBP EGP"`
	Fingerprint string `json:"fingerprint" validate:"omitempty,max=512"`
}

// AssignUserRequest is the explicit post-registration claim of a basket.
type AssignUserRequest struct {
	UserID   uuid.UUID `json:"user_id" validate:"required"`
	UserType string    `json:"user_type" validate:"omitempty,max=64"`
}

// AddItemsRequest carries one or more line descriptors.
type AddItemsRequest struct {
	Items []AddItemPayload `json:"items" validate:"required,min=1,dive"`
}

// AddItemPayload is one line descriptor. When product_id is set the line
// references the catalog record and name/price default from it. Price is a
// pointer so an explicit zero is distinguishable from an omitted field.
type AddItemPayload struct {
	Name       string           `json:"name" validate:"omitempty,max=255"`
	Price      *decimal.Decimal `json:"price"`
	Quantity   int              `json:"quantity" validate:"omitempty,min=1"`
	Attributes map[string]any   `json:"attributes"`
	ProductID  *uuid.UUID       `json:"product_id"`
}

// QuantityRequest mutates one line's quantity. Exactly one field is set.
type QuantityRequest struct {
	Quantity  *int `json:"quantity" validate:"omitempty,min=0"`
	Increment *int `json:"increment" validate:"omitempty,min=1"`
	Decrement *int `json:"decrement" validate:"omitempty,min=1"`
}
