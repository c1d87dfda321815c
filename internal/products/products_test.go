package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pharaonic/basket-backend/pkg/db/models"
	apperrors "github.com/pharaonic/basket-backend/pkg/errors"
)

func openTestRepo(t *testing.T) (*repository, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return &repository{conn: conn}, conn
}

func seedProduct(t *testing.T, conn *gorm.DB, sku string, active bool) models.Product {
	t.Helper()
	product := models.Product{
		ID:       uuid.New(),
		SKU:      sku,
		Name:     "Widget",
		Price:    decimal.NewFromFloat(9.99),
		IsActive: active,
	}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	return product
}

func TestFindByID(t *testing.T) {
	repo, conn := openTestRepo(t)
	seeded := seedProduct(t, conn, "SKU-1", true)

	found, err := repo.FindByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.SKU != "SKU-1" {
		t.Fatalf("expected SKU-1, got %q", found.SKU)
	}
}

func TestFindByIDNotFound(t *testing.T) {
	repo, _ := openTestRepo(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	if appErr := apperrors.As(err); appErr == nil || appErr.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFindByIDSkipsInactive(t *testing.T) {
	repo, conn := openTestRepo(t)
	seeded := seedProduct(t, conn, "SKU-2", false)

	if _, err := repo.FindByID(context.Background(), seeded.ID); err == nil {
		t.Fatal("expected inactive product to be hidden")
	}
}

func TestFindBySKU(t *testing.T) {
	repo, conn := openTestRepo(t)
	seeded := seedProduct(t, conn, "SKU-3", true)

	found, err := repo.FindBySKU(context.Background(), "SKU-3")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != seeded.ID {
		t.Fatalf("expected %s, got %s", seeded.ID, found.ID)
	}
}
