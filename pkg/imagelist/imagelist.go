// Package imagelist parses the loosely formatted list fields admins paste into
// forms and spreadsheets: image URLs, feature lists and report links.
package imagelist

import (
	"encoding/json"
	"strings"
	"unicode"
)

// Parse accepts either a JSON array of strings or a list separated by
// newlines, semicolons or commas. Entries are trimmed and empties dropped.
// A malformed JSON array falls back to delimiter splitting.
func Parse(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		var decoded []string
		if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
			return Clean(decoded)
		}
	}

	return splitOn(raw, func(r rune) bool {
		return r == '\r' || r == '\n' || r == ';' || r == ','
	})
}

// Clean trims every entry and drops the empty ones.
func Clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Join renders the list back into its storage-neutral textarea form.
func Join(items []string) string {
	return strings.Join(Clean(items), ";")
}

// Main returns the first image or the placeholder when the list is empty.
func Main(items []string, placeholder string) string {
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			return trimmed
		}
	}
	return placeholder
}

// SplitFeatures splits a feature list on semicolons, commas or newlines and
// keeps at most limit entries (limit <= 0 keeps all).
func SplitFeatures(raw string, limit int) []string {
	items := splitOn(raw, func(r rune) bool {
		return r == ';' || r == ',' || r == '\n' || r == '\r'
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// FirstReport returns the first link of a report list separated by
// semicolons, commas or whitespace.
func FirstReport(raw string) string {
	items := splitOn(raw, func(r rune) bool {
		return r == ';' || r == ',' || unicode.IsSpace(r)
	})
	if len(items) == 0 {
		return ""
	}
	return items[0]
}

func splitOn(raw string, sep func(rune) bool) []string {
	return Clean(strings.FieldsFunc(raw, sep))
}
