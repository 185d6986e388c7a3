package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/autosallon-backend/pkg/config"
	"github.com/angelmondragon/autosallon-backend/pkg/db"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
	"github.com/angelmondragon/autosallon-backend/pkg/migrate"
)

// app holds what every subcommand needs. Tests fill it in up front so the
// bootstrap is skipped.
type app struct {
	cfg  *config.Config
	logg *logger.Logger
	db   *db.Client

	ownsDB bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "autosallon",
		Short:         "Autosallon catalog maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.bootstrap(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	root.AddCommand(newImportCmd(a), newSeedAdminCmd(a))
	return root
}

func (a *app) bootstrap(ctx context.Context) error {
	if a.db != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	a.logg = logger.New(logger.Options{ServiceName: "autosallon"})
	if err := godotenv.Load(); err != nil {
		a.logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logg = logger.FromConfig("autosallon", cfg.App)

	client, err := db.New(ctx, cfg.DB, a.logg)
	if err != nil {
		return err
	}
	a.db = client
	a.ownsDB = true
	return migrate.MaybeRunDev(ctx, cfg, a.logg, client)
}

func (a *app) close() error {
	if a.db == nil || !a.ownsDB {
		return nil
	}
	return a.db.Close()
}
