package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

const (
	annotationUp             = "-- +goose Up"
	annotationDown           = "-- +goose Down"
	annotationStatementBegin = "-- +goose StatementBegin"
	annotationStatementEnd   = "-- +goose StatementEnd"
)

// ValidateDir runs ValidateFS over the migrations on disk under dir.
func ValidateDir(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}
	return ValidateFS(os.DirFS(dir))
}

// ValidateFS checks file names and goose annotations and returns the
// migration file names in version order.
func ValidateFS(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	names := []string{}
	seen := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name

		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", name, err)
		}
		if err := checkAnnotations(string(b)); err != nil {
			return nil, fmt.Errorf("migration %q: %w", name, err)
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("no migrations found")
	}
	sort.Strings(names)
	return names, nil
}

func checkAnnotations(txt string) error {
	up := strings.Index(txt, annotationUp)
	down := strings.Index(txt, annotationDown)
	switch {
	case up < 0:
		return fmt.Errorf("missing %q", annotationUp)
	case down < 0:
		return fmt.Errorf("missing %q", annotationDown)
	case down < up:
		return fmt.Errorf("%q comes before %q", annotationDown, annotationUp)
	}

	open := 0
	for _, line := range strings.Split(txt, "\n") {
		switch strings.TrimSpace(line) {
		case annotationStatementBegin:
			if open > 0 {
				return fmt.Errorf("nested %q", annotationStatementBegin)
			}
			open++
		case annotationStatementEnd:
			if open == 0 {
				return fmt.Errorf("%q without a matching begin", annotationStatementEnd)
			}
			open--
		}
	}
	if open != 0 {
		return fmt.Errorf("unterminated %q", annotationStatementBegin)
	}
	return nil
}

// latestVersion returns the highest version among names, 0 when empty.
func latestVersion(names []string) int64 {
	var latest int64
	for _, name := range names {
		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseInt(m[1], 10, 64); err == nil && v > latest {
			latest = v
		}
	}
	return latest
}
