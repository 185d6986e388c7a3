package search

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/angelmondragon/autosallon-backend/pkg/enums"
)

// Range is an inclusive numeric bound pair. Nil bounds impose no constraint.
type Range struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// IsZero reports whether neither bound is set.
func (r Range) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

// FilterState is the normalized form of a catalog query string.
type FilterState struct {
	Query      string              `json:"q"`
	Selections map[Column][]string `json:"selections"`
	Year       Range               `json:"year"`
	Price      Range               `json:"price"`
	Mileage    Range               `json:"mileage"`
	Sort       enums.SortKey       `json:"sort"`
	Page       int                 `json:"page"`
}

// Query parameter aliases. The Albanian names are what the storefront links use.
var (
	facetParams = map[Column][]string{
		ColumnManufacturer: {"manufacturer", "prodhuesi"},
		ColumnModel:        {"model", "modeli"},
		ColumnFuel:         {"fuel", "karburanti"},
		ColumnTransmission: {"transmission", "transmisioni"},
		ColumnColor:        {"color", "ngjyra"},
		ColumnSeats:        {"seats", "uleset"},
		ColumnYear:         {"year", "viti"},
	}
	minParams = map[Column][]string{
		ColumnYear:    {"min_year", "min_viti"},
		ColumnPrice:   {"min_price", "min_cmim"},
		ColumnMileage: {"min_mileage", "min_km"},
	}
	maxParams = map[Column][]string{
		ColumnYear:    {"max_year", "max_viti"},
		ColumnPrice:   {"max_price", "max_cmim"},
		ColumnMileage: {"max_mileage", "max_km"},
	}
)

// ParseFilterState reads a catalog query string. It never fails: malformed
// numbers, unknown sort keys and bad pages are treated as absent.
func ParseFilterState(values url.Values) FilterState {
	state := FilterState{
		Query:      strings.TrimSpace(values.Get("q")),
		Selections: map[Column][]string{},
		Sort:       enums.ParseSortKey(values.Get("sort")),
		Page:       1,
	}

	for _, col := range FacetColumns {
		if selected := selectedValues(values, col, facetParams[col]); len(selected) > 0 {
			state.Selections[col] = selected
		}
	}

	state.Year = parseRange(values, ColumnYear)
	state.Price = parseRange(values, ColumnPrice)
	state.Mileage = parseRange(values, ColumnMileage)

	if page, ok := parseInt(values.Get("page")); ok && page > 0 {
		state.Page = page
	}

	return state
}

// Encode renders the state back into canonical query parameters, which is what
// pagination links carry.
func (s FilterState) Encode() url.Values {
	out := url.Values{}
	if s.Query != "" {
		out.Set("q", s.Query)
	}
	for _, col := range FacetColumns {
		for _, v := range s.Selections[col] {
			out.Add(facetParams[col][0], v)
		}
	}
	for col, rng := range map[Column]Range{ColumnYear: s.Year, ColumnPrice: s.Price, ColumnMileage: s.Mileage} {
		if rng.Min != nil {
			out.Set(minParams[col][0], strconv.Itoa(*rng.Min))
		}
		if rng.Max != nil {
			out.Set(maxParams[col][0], strconv.Itoa(*rng.Max))
		}
	}
	if s.Sort != "" && s.Sort != enums.SortNewest {
		out.Set("sort", s.Sort.String())
	}
	if s.Page > 1 {
		out.Set("page", strconv.Itoa(s.Page))
	}
	return out
}

func selectedValues(values url.Values, col Column, keys []string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, key := range keys {
		for _, raw := range append(values[key], values[key+"[]"]...) {
			v := strings.TrimSpace(raw)
			if v == "" {
				continue
			}
			if col.Numeric() {
				n, ok := parseInt(v)
				if !ok {
					continue
				}
				v = strconv.Itoa(n)
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func parseRange(values url.Values, col Column) Range {
	return Range{
		Min: firstInt(values, minParams[col]),
		Max: firstInt(values, maxParams[col]),
	}
}

func firstInt(values url.Values, keys []string) *int {
	for _, key := range keys {
		if n, ok := parseInt(values.Get(key)); ok {
			return &n
		}
	}
	return nil
}

func parseInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
