package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/autosallon-backend/pkg/config"
	"github.com/angelmondragon/autosallon-backend/pkg/db"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
)

// MaybeRunDev applies the bundled migrations on startup when auto-migrate is
// on and the app runs in dev mode or against the local sqlite file.
// Production schemas only move through cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	if !cfg.App.IsDev() && !cfg.DB.IsSQLite() {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	fsys, err := Migrations("")
	if err != nil {
		return err
	}
	migrator, err := New(sqlDB, Dialect(cfg.DB), fsys)
	if err != nil {
		return err
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": string(Dialect(cfg.DB))})
	applied, err := migrator.Up(ctx)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	logg.Info(logg.WithField(ctx, "applied", applied), "migrations up to date")
	return nil
}
