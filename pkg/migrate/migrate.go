package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/angelmondragon/autosallon-backend/pkg/config"
	"github.com/pressly/goose/v3"
)

// DefaultDir is where `create` writes new files and `validate` looks by default.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var bundled embed.FS

// Dialect maps the configured database driver to its goose dialect.
func Dialect(cfg config.DBConfig) goose.Dialect {
	if cfg.IsSQLite() {
		return goose.DialectSQLite3
	}
	return goose.DialectPostgres
}

// Migrations returns the migration files compiled into the binary, or the
// ones on disk under dir when dir is set.
func Migrations(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(bundled, "migrations")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("migrations dir %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("migrations dir %q is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

// Status is one row of `migrate status`.
type Status struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Migrator applies the catalog schema with a goose provider.
type Migrator struct {
	provider *goose.Provider
}

// New builds a migrator over db using the files in fsys.
func New(db *sql.DB, dialect goose.Dialect, fsys fs.FS) (*Migrator, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if fsys == nil {
		return nil, fmt.Errorf("migrations fs is required")
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return &Migrator{provider: provider}, nil
}

// Up applies every pending migration and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	results, err := m.provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("goose up: %w", err)
	}
	return len(results), nil
}

// Down rolls back the latest applied migration. It returns false when
// nothing was applied.
func (m *Migrator) Down(ctx context.Context) (bool, error) {
	if _, err := m.provider.Down(ctx); err != nil {
		if errors.Is(err, goose.ErrNoNextVersion) {
			return false, nil
		}
		return false, fmt.Errorf("goose down: %w", err)
	}
	return true, nil
}

// Version reports the latest applied migration version, 0 on a fresh database.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	v, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get db version: %w", err)
	}
	return v, nil
}

// Status lists every known migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	rows, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}
	out := make([]Status, 0, len(rows))
	for _, row := range rows {
		out = append(out, Status{
			Version:   row.Source.Version,
			Name:      path.Base(row.Source.Path),
			Applied:   row.State == goose.StateApplied,
			AppliedAt: row.AppliedAt,
		})
	}
	return out, nil
}

// To migrates up or down until targetVersion is the latest applied version.
func (m *Migrator) To(ctx context.Context, targetVersion string) error {
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil || target < 0 {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS)", targetVersion)
	}

	current, err := m.Version(ctx)
	if err != nil {
		return err
	}

	switch {
	case current == target:
		return nil
	case current < target:
		if _, err := m.provider.UpTo(ctx, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
	default:
		if _, err := m.provider.DownTo(ctx, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
	}
	return nil
}
