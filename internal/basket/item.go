package basket

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharaonic/basket-backend/pkg/db/models"
	apperrors "github.com/pharaonic/basket-backend/pkg/errors"
	"github.com/pharaonic/basket-backend/pkg/types"
)

// Item wraps one basket line with its positional index. The index is
// projection-local: it identifies the line only within the manager instance
// that assigned it, never across reloads. Removal leaves a gap; indices are
// reassigned densely the next time the basket is loaded.
type Item struct {
	index   int
	record  *models.BasketItem
	manager *Manager
}

// Index returns the projection-local position of the line.
func (i *Item) Index() int {
	return i.index
}

// ID returns the durable record id.
func (i *Item) ID() uuid.UUID {
	return i.record.ID
}

// Name returns the display name of the line.
func (i *Item) Name() string {
	return i.record.Name
}

// Price returns the unit price.
func (i *Item) Price() decimal.Decimal {
	return i.record.Price
}

// Quantity returns the current quantity.
func (i *Item) Quantity() int {
	return i.record.Quantity
}

// Attributes returns a detached copy of the attribute set.
func (i *Item) Attributes() types.Attributes {
	return i.record.Attributes.Clone()
}

// Modelable returns the referenced product record when one was resolved.
func (i *Item) Modelable() *models.Product {
	return i.record.Modelable
}

// Reference returns the external record the line points at, nil for a
// free-form line.
func (i *Item) Reference() *ModelableRef {
	if i.record.ModelableType == nil || i.record.ModelableID == nil {
		return nil
	}
	return &ModelableRef{Type: *i.record.ModelableType, ID: *i.record.ModelableID}
}

// References reports whether the line points at the given external record.
func (i *Item) References(modelType string, modelID uuid.UUID) bool {
	return i.record.References(modelType, modelID)
}

// Total is the derived line total (unit price times quantity).
func (i *Item) Total() decimal.Decimal {
	return i.record.Total()
}

// SetQuantity persists an absolute quantity and returns the wrapper for
// chaining. Quantities below 1 remove the line instead, in which case the
// returned wrapper is nil.
func (i *Item) SetQuantity(ctx context.Context, quantity int) (*Item, error) {
	if i.manager == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "detached basket item")
	}
	if err := i.manager.guardMutable(); err != nil {
		return nil, err
	}
	if quantity < 1 {
		if _, err := i.manager.Remove(ctx, i.index); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := i.manager.repo.UpdateItemQuantity(ctx, i.record.ID, quantity); err != nil {
		return nil, err
	}
	i.record.Quantity = quantity
	return i, nil
}

// Increment raises the quantity by n (1 when n <= 0).
func (i *Item) Increment(ctx context.Context, n int) (*Item, error) {
	if n <= 0 {
		n = 1
	}
	return i.SetQuantity(ctx, i.record.Quantity+n)
}

// Decrement lowers the quantity by n (1 when n <= 0). Driving the quantity
// below 1 removes the line rather than persisting a zero or negative count.
func (i *Item) Decrement(ctx context.Context, n int) (*Item, error) {
	if n <= 0 {
		n = 1
	}
	return i.SetQuantity(ctx, i.record.Quantity-n)
}
