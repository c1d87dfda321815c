package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pharaonic/basket-backend/pkg/db/models"
)

func openTestConn(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}))
	return conn
}

func testProduct(sku string) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		SKU:      sku,
		Name:     "Widget",
		Price:    decimal.NewFromFloat(9.99),
		IsActive: true,
	}
}

func TestWithTxCommits(t *testing.T) {
	conn := openTestConn(t)

	err := WithTx(context.Background(), conn, func(tx *gorm.DB) error {
		return tx.Create(testProduct("SKU-1")).Error
	})
	require.NoError(t, err)

	var rows int64
	require.NoError(t, conn.Model(&models.Product{}).Count(&rows).Error)
	require.EqualValues(t, 1, rows)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	conn := openTestConn(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), conn, func(tx *gorm.DB) error {
		if err := tx.Create(testProduct("SKU-1")).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The write inside the failed transaction must not survive.
	var rows int64
	require.NoError(t, conn.Model(&models.Product{}).Count(&rows).Error)
	require.EqualValues(t, 0, rows)
}
