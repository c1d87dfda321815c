package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pharaonic/basket-backend/pkg/types"
)

// OrderItem is the frozen counterpart of a BasketItem after conversion.
type OrderItem struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	OrderID       uuid.UUID        `gorm:"column:order_id;type:uuid;not null;index"`
	ModelableType *string          `gorm:"column:modelable_type"`
	ModelableID   *uuid.UUID       `gorm:"column:modelable_id;type:uuid"`
	Name          string           `gorm:"column:name;not null"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	Quantity      int              `gorm:"column:quantity;not null"`
	Attributes    types.Attributes `gorm:"column:attributes;type:jsonb;serializer:json"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt   `gorm:"column:deleted_at;index"`
}
