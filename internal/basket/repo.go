package basket

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharaonic/basket-backend/pkg/db"
	"github.com/pharaonic/basket-backend/pkg/db/models"
	apperrors "github.com/pharaonic/basket-backend/pkg/errors"
)

type gormRepository struct {
	conn *gorm.DB
}

// NewRepository builds the gorm-backed record store.
func NewRepository(client *db.Client) (Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	return &gormRepository{conn: client.DB()}, nil
}

// CreateBasket inserts the basket row, minting the id client-side so the
// sqlite path works without a database-level uuid default.
func (r *gormRepository) CreateBasket(ctx context.Context, basket *models.Basket) error {
	if basket.ID == uuid.Nil {
		basket.ID = uuid.New()
	}
	if err := r.conn.WithContext(ctx).Omit("Items").Create(basket).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "creating basket")
	}
	return nil
}

// FindBasket loads the basket with its live items in insertion order and
// resolves each item's referenced product in one batched query.
func (r *gormRepository) FindBasket(ctx context.Context, id uuid.UUID) (*models.Basket, error) {
	var basket models.Basket
	err := r.conn.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&basket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "basket not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "querying basket")
	}
	if err := r.attachProducts(ctx, basket.Items); err != nil {
		return nil, err
	}
	return &basket, nil
}

func (r *gormRepository) attachProducts(ctx context.Context, items []models.BasketItem) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.ModelableType != nil && *item.ModelableType == models.ModelableTypeProduct && item.ModelableID != nil {
			ids = append(ids, *item.ModelableID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var products []models.Product
	if err := r.conn.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "loading referenced products")
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for i := range items {
		if items[i].ModelableID != nil {
			items[i].Modelable = byID[*items[i].ModelableID]
		}
	}
	return nil
}

// UpdateBasketOwner persists the owner triple and status. A column map is
// used so clearing the fingerprint actually writes NULL.
func (r *gormRepository) UpdateBasketOwner(ctx context.Context, basket *models.Basket) error {
	err := r.conn.WithContext(ctx).
		Model(&models.Basket{}).
		Where("id = ?", basket.ID).
		Updates(map[string]any{
			"user_type":  basket.UserType,
			"user_id":    basket.UserID,
			"user_agent": basket.UserAgent,
			"status":     basket.Status,
		}).Error
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "updating basket owner")
	}
	return nil
}

// SoftDeleteBasket soft-deletes the basket and its items in one transaction.
// The FK cascade only fires on hard deletes, so items are tombstoned
// explicitly; the transaction keeps them from outliving a failed basket
// delete.
func (r *gormRepository) SoftDeleteBasket(ctx context.Context, basket *models.Basket) error {
	err := db.WithTx(ctx, r.conn, func(tx *gorm.DB) error {
		if err := tx.Where("basket_id = ?", basket.ID).Delete(&models.BasketItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Basket{}, "id = ?", basket.ID).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting basket")
	}
	return nil
}

// CreateItem inserts a basket line.
func (r *gormRepository) CreateItem(ctx context.Context, item *models.BasketItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := r.conn.WithContext(ctx).Create(item).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "creating basket item")
	}
	return nil
}

// UpdateItemQuantity persists an absolute quantity for one line.
func (r *gormRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	err := r.conn.WithContext(ctx).
		Model(&models.BasketItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "updating item quantity")
	}
	return nil
}

// SoftDeleteItem tombstones one line.
func (r *gormRepository) SoftDeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if err := r.conn.WithContext(ctx).Delete(&models.BasketItem{}, "id = ?", itemID).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "deleting basket item")
	}
	return nil
}

// DeleteAllItems tombstones every line of the basket.
func (r *gormRepository) DeleteAllItems(ctx context.Context, basketID uuid.UUID) error {
	if err := r.conn.WithContext(ctx).Where("basket_id = ?", basketID).Delete(&models.BasketItem{}).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "clearing basket items")
	}
	return nil
}
