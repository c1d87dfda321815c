package migrate

import (
	"context"
	"fmt"

	"github.com/pharaonic/basket-backend/pkg/config"
	"github.com/pharaonic/basket-backend/pkg/db"
	"github.com/pharaonic/basket-backend/pkg/db/models"
	"github.com/pharaonic/basket-backend/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in
// dev mode and the feature flag is enabled. The goose SQL files target
// Postgres; the sqlite flag path builds its schema from the gorm models
// instead.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.FeatureFlags.UseSQLite {
		logg.Info(logg.WithFields(ctx, map[string]any{"env": cfg.App.Env}), "auto-migrating sqlite schema (dev auto-run)")
		if err := AutoMigrateModels(client); err != nil {
			return fmt.Errorf("auto-migrating sqlite schema: %w", err)
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// AutoMigrateModels creates the schema from the gorm models. Only used on
// dialects the goose SQL files do not cover.
func AutoMigrateModels(client *db.Client) error {
	return client.DB().AutoMigrate(
		&models.Product{},
		&models.Basket{},
		&models.BasketItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}
