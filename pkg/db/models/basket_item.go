package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pharaonic/basket-backend/pkg/types"
)

// BasketItem persists one line of a basket. The polymorphic
// modelable_type/modelable_id pair optionally references the external
// record (usually a product) the line was created from.
type BasketItem struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	BasketID      uuid.UUID        `gorm:"column:basket_id;type:uuid;not null;index"`
	ModelableType *string          `gorm:"column:modelable_type"`
	ModelableID   *uuid.UUID       `gorm:"column:modelable_id;type:uuid"`
	Name          string           `gorm:"column:name;not null"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	Quantity      int              `gorm:"column:quantity;not null"`
	Attributes    types.Attributes `gorm:"column:attributes;type:jsonb;serializer:json"`
	Modelable     *Product         `gorm:"-"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt   `gorm:"column:deleted_at;index"`
}

// Total is the derived line total (unit price times quantity).
func (i *BasketItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// References reports whether the line points at the given external record.
func (i *BasketItem) References(modelType string, modelID uuid.UUID) bool {
	if i.ModelableType == nil || i.ModelableID == nil {
		return false
	}
	return *i.ModelableType == modelType && *i.ModelableID == modelID
}
