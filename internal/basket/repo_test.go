package basket

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pharaonic/basket-backend/pkg/db/models"
	"github.com/pharaonic/basket-backend/pkg/enums"
	apperrors "github.com/pharaonic/basket-backend/pkg/errors"
	"github.com/pharaonic/basket-backend/pkg/types"
)

func openRepo(t *testing.T) (*gormRepository, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Basket{}, &models.BasketItem{}, &models.Product{}))
	return &gormRepository{conn: conn}, conn
}

func anonymousBasket(fingerprint string) *models.Basket {
	return &models.Basket{
		UserAgent: &fingerprint,
		Currency:  enums.CurrencyUSD,
		Status:    enums.BasketStatusActive,
	}
}

func TestRepoCreateAndFindBasket(t *testing.T) {
	repo, _ := openRepo(t)
	ctx := context.Background()

	basket := anonymousBasket("UA-1")
	require.NoError(t, repo.CreateBasket(ctx, basket))
	require.NotEqual(t, uuid.Nil, basket.ID)

	loaded, err := repo.FindBasket(ctx, basket.ID)
	require.NoError(t, err)
	require.Equal(t, basket.ID, loaded.ID)
	require.True(t, loaded.Anonymous())
	require.Empty(t, loaded.Items)
}

func TestRepoFindBasketNotFound(t *testing.T) {
	repo, _ := openRepo(t)

	_, err := repo.FindBasket(context.Background(), uuid.New())
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, apperrors.CodeNotFound, appErr.Code())
}

func TestRepoFindBasketLoadsItemsWithProducts(t *testing.T) {
	repo, conn := openRepo(t)
	ctx := context.Background()

	product := models.Product{
		ID:       uuid.New(),
		SKU:      "SKU-1",
		Name:     "Widget",
		Price:    decimal.NewFromFloat(9.99),
		IsActive: true,
	}
	require.NoError(t, conn.Create(&product).Error)

	basket := anonymousBasket("UA-1")
	require.NoError(t, repo.CreateBasket(ctx, basket))

	modelType := models.ModelableTypeProduct
	item := &models.BasketItem{
		BasketID:      basket.ID,
		ModelableType: &modelType,
		ModelableID:   &product.ID,
		Name:          "Widget",
		Price:         decimal.NewFromFloat(9.99),
		Quantity:      2,
		Attributes:    types.Attributes{"size": "L"},
	}
	require.NoError(t, repo.CreateItem(ctx, item))

	loaded, err := repo.FindBasket(ctx, basket.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	require.Equal(t, 2, loaded.Items[0].Quantity)
	require.NotNil(t, loaded.Items[0].Modelable)
	require.Equal(t, "SKU-1", loaded.Items[0].Modelable.SKU)
	require.Equal(t, "L", loaded.Items[0].Attributes["size"])
}

func TestRepoUpdateBasketOwnerClearsFingerprint(t *testing.T) {
	repo, _ := openRepo(t)
	ctx := context.Background()

	basket := anonymousBasket("UA-1")
	require.NoError(t, repo.CreateBasket(ctx, basket))

	principalType := "customer"
	principalID := uuid.New()
	basket.UserAgent = nil
	basket.UserType = &principalType
	basket.UserID = &principalID
	require.NoError(t, repo.UpdateBasketOwner(ctx, basket))

	loaded, err := repo.FindBasket(ctx, basket.ID)
	require.NoError(t, err)
	require.Nil(t, loaded.UserAgent)
	require.True(t, loaded.OwnedBy(principalType, principalID))
}

func TestRepoSoftDeleteBasketHidesBasketAndItems(t *testing.T) {
	repo, conn := openRepo(t)
	ctx := context.Background()

	basket := anonymousBasket("UA-1")
	require.NoError(t, repo.CreateBasket(ctx, basket))
	require.NoError(t, repo.CreateItem(ctx, &models.BasketItem{
		BasketID: basket.ID,
		Name:     "Widget",
		Price:    decimal.NewFromFloat(9.99),
		Quantity: 1,
	}))

	require.NoError(t, repo.SoftDeleteBasket(ctx, basket))

	_, err := repo.FindBasket(ctx, basket.ID)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, apperrors.CodeNotFound, appErr.Code())

	// Tombstoned, not erased.
	var rows int64
	require.NoError(t, conn.Unscoped().Model(&models.Basket{}).Where("id = ?", basket.ID).Count(&rows).Error)
	require.EqualValues(t, 1, rows)
	require.NoError(t, conn.Unscoped().Model(&models.BasketItem{}).Where("basket_id = ?", basket.ID).Where("deleted_at IS NOT NULL").Count(&rows).Error)
	require.EqualValues(t, 1, rows)
}

func TestRepoUpdateItemQuantity(t *testing.T) {
	repo, _ := openRepo(t)
	ctx := context.Background()

	basket := anonymousBasket("UA-1")
	require.NoError(t, repo.CreateBasket(ctx, basket))
	item := &models.BasketItem{BasketID: basket.ID, Name: "Widget", Price: decimal.NewFromFloat(9.99), Quantity: 1}
	require.NoError(t, repo.CreateItem(ctx, item))

	require.NoError(t, repo.UpdateItemQuantity(ctx, item.ID, 5))

	loaded, err := repo.FindBasket(ctx, basket.ID)
	require.NoError(t, err)
	require.Equal(t, 5, loaded.Items[0].Quantity)
}

func TestRepoSoftDeleteItem(t *testing.T) {
	repo, _ := openRepo(t)
	ctx := context.Background()

	basket := anonymousBasket("UA-1")
	require.NoError(t, repo.CreateBasket(ctx, basket))
	item := &models.BasketItem{BasketID: basket.ID, Name: "Widget", Price: decimal.NewFromFloat(9.99), Quantity: 1}
	require.NoError(t, repo.CreateItem(ctx, item))

	require.NoError(t, repo.SoftDeleteItem(ctx, item.ID))

	loaded, err := repo.FindBasket(ctx, basket.ID)
	require.NoError(t, err)
	require.Empty(t, loaded.Items)
}

func TestRepoDeleteAllItems(t *testing.T) {
	repo, _ := openRepo(t)
	ctx := context.Background()

	basket := anonymousBasket("UA-1")
	require.NoError(t, repo.CreateBasket(ctx, basket))
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateItem(ctx, &models.BasketItem{
			BasketID: basket.ID,
			Name:     "Widget",
			Price:    decimal.NewFromFloat(9.99),
			Quantity: 1,
		}))
	}

	require.NoError(t, repo.DeleteAllItems(ctx, basket.ID))

	loaded, err := repo.FindBasket(ctx, basket.ID)
	require.NoError(t, err)
	require.Empty(t, loaded.Items)
}
