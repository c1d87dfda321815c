package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pharaonic/basket-backend/pkg/enums"
)

// Order is the adjacent lifecycle stage a converted basket feeds into.
// The conversion workflow itself lives outside this service.
type Order struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserType  *string           `gorm:"column:user_type"`
	UserID    *uuid.UUID        `gorm:"column:user_id;type:uuid"`
	Currency  enums.Currency    `gorm:"column:currency;not null;default:'USD'"`
	SubTotal  decimal.Decimal   `gorm:"column:sub_total;type:numeric(10,2);not null;default:0"`
	VAT       decimal.Decimal   `gorm:"column:vat;type:numeric(10,2);not null;default:0"`
	Status    enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Items     []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt    `gorm:"column:deleted_at;index"`
}
