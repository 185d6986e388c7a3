package enums

import "strings"

// SortKey enumerates the catalog orderings.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortRelevance SortKey = "relevance"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortKmAsc     SortKey = "km_asc"
	SortKmDesc    SortKey = "km_desc"
	SortYearDesc  SortKey = "year_desc"
	SortYearAsc   SortKey = "year_asc"
)

var validSortKeys = []SortKey{
	SortNewest,
	SortRelevance,
	SortPriceAsc,
	SortPriceDesc,
	SortKmAsc,
	SortKmDesc,
	SortYearDesc,
	SortYearAsc,
}

// String implements fmt.Stringer.
func (s SortKey) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortKey.
func (s SortKey) IsValid() bool {
	for _, candidate := range validSortKeys {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortKey never fails: unknown, empty and "relevance" values collapse to
// SortNewest since there is no scoring behind relevance.
func ParseSortKey(value string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(value)))
	if !key.IsValid() || key == SortRelevance {
		return SortNewest
	}
	return key
}
