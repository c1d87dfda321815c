// Package products exposes the catalog lookups the basket layer needs when a
// line references a stored product instead of carrying free-form data.
package products

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

// Repository resolves product records for basket lines.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
}

type repository struct {
	conn *gorm.DB
}

// NewRepository builds the gorm-backed catalog repository.
func NewRepository(client *db.Client) (Repository, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	return &repository{conn: client.DB()}, nil
}

func (r *repository) find(ctx context.Context, query string, arg any) (*models.Product, error) {
	var product models.Product
	err := r.conn.WithContext(ctx).Where(query, arg, true).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "querying product")
	}
	return &product, nil
}

// FindByID returns an active product by primary key.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return r.find(ctx, "id = ? AND is_active = ?", id)
}

// FindBySKU returns an active product by its unique SKU.
func (r *repository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return r.find(ctx, "sku = ? AND is_active = ?", sku)
}
