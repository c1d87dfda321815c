package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharaonic/basket-backend/pkg/enums"
)

// Basket is the cart-like aggregate owned by either an anonymous client
// (UserAgent set) or an authenticated principal (UserType+UserID set).
// Exactly one of the two owner shapes is populated at any time.
type Basket struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	UserType  *string            `gorm:"column:user_type"`
	UserID    *uuid.UUID         `gorm:"column:user_id;type:uuid"`
	UserAgent *string            `gorm:"column:user_agent"`
	Currency  enums.Currency     `gorm:"column:currency;not null;default:'USD'"`
	Status    enums.BasketStatus `gorm:"column:status;not null;default:'active'"`
	Items     []BasketItem       `gorm:"foreignKey:BasketID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt     `gorm:"column:deleted_at;index"`
}

// Anonymous reports whether the basket is still fingerprint-owned.
func (b *Basket) Anonymous() bool {
	return b.UserAgent != nil && *b.UserAgent != ""
}

// OwnedBy reports whether the basket belongs to the given principal pair.
func (b *Basket) OwnedBy(principalType string, principalID uuid.UUID) bool {
	if b.UserType == nil || b.UserID == nil {
		return false
	}
	return *b.UserType == principalType && *b.UserID == principalID
}
