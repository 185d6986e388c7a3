package search

import "github.com/angelmondragon/autosallon-backend/pkg/config"

// Column names a filterable vehicles column.
type Column string

const (
	ColumnManufacturer Column = "manufacturer"
	ColumnModel        Column = "model"
	ColumnTrim         Column = "trim"
	ColumnVIN          Column = "vin"
	ColumnColor        Column = "color"
	ColumnFuel         Column = "fuel"
	ColumnTransmission Column = "transmission"
	ColumnSeats        Column = "seats"
	ColumnYear         Column = "year"
	ColumnPrice        Column = "price"
	ColumnMileage      Column = "mileage"
)

// SearchableColumns are matched by the free-text query.
var SearchableColumns = []Column{
	ColumnManufacturer,
	ColumnModel,
	ColumnTrim,
	ColumnVIN,
	ColumnColor,
	ColumnFuel,
	ColumnTransmission,
}

// FacetColumns accept multi-select filters, in display order.
var FacetColumns = []Column{
	ColumnManufacturer,
	ColumnModel,
	ColumnFuel,
	ColumnTransmission,
	ColumnColor,
	ColumnSeats,
	ColumnYear,
}

// Numeric reports whether the column stores integers.
func (c Column) Numeric() bool {
	switch c {
	case ColumnSeats, ColumnYear, ColumnPrice, ColumnMileage:
		return true
	default:
		return false
	}
}

// TieBreak orders facet values that share a count.
type TieBreak uint8

const (
	TieBreakValueAsc TieBreak = iota
	TieBreakValueDesc
)

// FacetSpec configures one facet aggregate.
type FacetSpec struct {
	Column   Column
	Limit    int
	TieBreak TieBreak
}

// FacetSpecs builds the facet list from config. Years break ties newest first.
func FacetSpecs(cfg config.SearchConfig) []FacetSpec {
	return []FacetSpec{
		{Column: ColumnManufacturer, Limit: cfg.ManufacturerFacetLimit},
		{Column: ColumnModel, Limit: cfg.ModelFacetLimit},
		{Column: ColumnFuel, Limit: cfg.FuelFacetLimit},
		{Column: ColumnTransmission, Limit: cfg.TransmissionFacetLimit},
		{Column: ColumnColor, Limit: cfg.ColorFacetLimit},
		{Column: ColumnSeats, Limit: cfg.SeatsFacetLimit},
		{Column: ColumnYear, Limit: cfg.YearFacetLimit, TieBreak: TieBreakValueDesc},
	}
}
