package basket

import (
	"context"

	"github.com/google/uuid"

	"github.com/pharaonic/basket-backend/pkg/db/models"
)

// Repository is the record store the manager persists through. FindBasket
// loads items (and their referenced products) eagerly so the manager can
// rebuild its projection without further round trips.
type Repository interface {
	CreateBasket(ctx context.Context, basket *models.Basket) error
	FindBasket(ctx context.Context, id uuid.UUID) (*models.Basket, error)
	UpdateBasketOwner(ctx context.Context, basket *models.Basket) error
	SoftDeleteBasket(ctx context.Context, basket *models.Basket) error

	CreateItem(ctx context.Context, item *models.BasketItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	SoftDeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteAllItems(ctx context.Context, basketID uuid.UUID) error
}
