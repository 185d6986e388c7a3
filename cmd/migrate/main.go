package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/autosallon-backend/pkg/config"
	"github.com/angelmondragon/autosallon-backend/pkg/db"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
	"github.com/angelmondragon/autosallon-backend/pkg/migrate"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

type options struct {
	dir string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the catalog database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dir, "dir", "", "migrations directory (default: files bundled into the binary)")

	root.AddCommand(
		&cobra.Command{
			Use:   "create <name>",
			Short: "Write a new empty SQL migration",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := migrate.CreateSQLMigration(opts.diskDir(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "created migration:", path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check migration names and goose annotations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				names, err := migrate.ValidateDir(opts.diskDir())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migration validation passed (%d files)\n", len(names))
				return nil
			},
		},
		dbCommand(opts, "up", "Apply all pending migrations", cobra.NoArgs,
			func(cmd *cobra.Command, m *migrate.Migrator, args []string) error {
				applied, err := m.Up(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations\n", applied)
				return nil
			}),
		dbCommand(opts, "down", "Roll back the latest migration", cobra.NoArgs,
			func(cmd *cobra.Command, m *migrate.Migrator, args []string) error {
				rolled, err := m.Down(cmd.Context())
				if err != nil {
					return err
				}
				if !rolled {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing to roll back")
				}
				return nil
			}),
		dbCommand(opts, "status", "List migrations and whether they are applied", cobra.NoArgs,
			func(cmd *cobra.Command, m *migrate.Migrator, args []string) error {
				rows, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				return printStatus(cmd, rows)
			}),
		dbCommand(opts, "to <version>", "Migrate up or down to a version (YYYYMMDDHHMMSS)", cobra.ExactArgs(1),
			func(cmd *cobra.Command, m *migrate.Migrator, args []string) error {
				return m.To(cmd.Context(), args[0])
			}),
	)
	return root
}

// diskDir is the directory create and validate work on.
func (o *options) diskDir() string {
	if o.dir == "" {
		return migrate.DefaultDir
	}
	return o.dir
}

type migratorFunc func(cmd *cobra.Command, m *migrate.Migrator, args []string) error

// dbCommand wires config, logging and the database before handing a
// migrator to run.
func dbCommand(opts *options, use, short string, args cobra.PositionalArgs, run migratorFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, positional []string) error {
			ctx := cmd.Context()
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logg := logger.FromConfig("migrate", cfg.App)
			ctx = logg.WithFields(ctx, map[string]any{
				"env":     cfg.App.Env,
				"cmd":     cmd.Name(),
				"dialect": string(migrate.Dialect(cfg.DB)),
			})

			client, err := db.New(ctx, cfg.DB, logg)
			if err != nil {
				return fmt.Errorf("database: %w", err)
			}
			defer client.Close()

			sqlDB, err := client.DB().DB()
			if err != nil {
				return fmt.Errorf("sql database: %w", err)
			}
			fsys, err := migrate.Migrations(opts.dir)
			if err != nil {
				return err
			}
			m, err := migrate.New(sqlDB, migrate.Dialect(cfg.DB), fsys)
			if err != nil {
				return err
			}

			cmd.SetContext(ctx)
			if err := run(cmd, m, positional); err != nil {
				logg.Error(ctx, "migrate.failed", err)
				return err
			}
			logg.Info(ctx, "migrate.done")
			return nil
		},
	}
}

func printStatus(cmd *cobra.Command, rows []migrate.Status) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED AT\tNAME")
	for _, row := range rows {
		state, at := "pending", "-"
		if row.Applied {
			state, at = "applied", row.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", row.Version, state, at, row.Name)
	}
	return w.Flush()
}
