package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9]+`)

const migrationTemplate = `-- +goose Up
-- %[1]s
-- Keep statements portable: the same file runs on postgres and sqlite.

-- +goose Down
-- rollback %[1]s
`

// CreateSQLMigration writes <dir>/<version>_<name>.sql. The version is the
// current UTC timestamp, bumped past the newest existing file so goose never
// sees an out-of-order migration.
func CreateSQLMigration(dir string, name string) (string, error) {
	return createSQLMigrationAt(dir, name, time.Now().UTC())
}

func createSQLMigrationAt(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe := sanitizeName(name)
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	existing, err := existingNames(dir)
	if err != nil {
		return "", err
	}
	for _, n := range existing {
		if strings.TrimSuffix(n[len(versionLayout)+1:], ".sql") == safe {
			return "", fmt.Errorf("migration %q already exists as %s", safe, n)
		}
	}

	version, _ := strconv.ParseInt(now.UTC().Format(versionLayout), 10, 64)
	if latest := latestVersion(existing); version <= latest {
		version = latest + 1
	}

	fullpath := filepath.Join(dir, fmt.Sprintf("%d_%s.sql", version, safe))
	if err := os.WriteFile(fullpath, []byte(fmt.Sprintf(migrationTemplate, safe)), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}
	return fullpath, nil
}

func sanitizeName(name string) string {
	safe := nameSanitizeRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return strings.Trim(safe, "_")
}

func existingNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}
	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && sqlFileRe.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
