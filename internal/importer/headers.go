package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type field string

const (
	fieldManufacturer field = "manufacturer"
	fieldModel        field = "model"
	fieldTrim         field = "trim"
	fieldYear         field = "year"
	fieldPrice        field = "price"
	fieldMileage      field = "mileage"
	fieldFuel         field = "fuel"
	fieldColor        field = "color"
	fieldTransmission field = "transmission"
	fieldSeats        field = "seats"
	fieldVIN          field = "vin"
	fieldEngineCC     field = "engine_cc"
	fieldImages       field = "images"
	fieldListingURL   field = "listing_url"
	fieldFeatures     field = "features"
	fieldReportURLs   field = "report_urls"
	fieldSource       field = "source"
	fieldExternalID   field = "external_id"
)

// headerAliases maps normalized header labels to vehicle fields. Keys cover the
// Albanian sheet labels, raw column names and English exports.
var headerAliases = map[string]field{
	"prodhuesi":    fieldManufacturer,
	"manufacturer": fieldManufacturer,
	"make":         fieldManufacturer,

	"modeli": fieldModel,
	"model":  fieldModel,

	"varianti": fieldTrim,
	"grade":    fieldTrim,
	"trim":     fieldTrim,

	"viti": fieldYear,
	"year": fieldYear,

	"cmimi eur": fieldPrice,
	"cmimi_eur": fieldPrice,
	"cmimi":     fieldPrice,
	"price":     fieldPrice,

	"kilometrazhi km": fieldMileage,
	"kilometrazhi_km": fieldMileage,
	"kilometrazhi":    fieldMileage,
	"mileage":         fieldMileage,
	"km":              fieldMileage,

	"karburanti": fieldFuel,
	"fuel":       fieldFuel,

	"ngjyra": fieldColor,
	"color":  fieldColor,
	"colour": fieldColor,

	"transmisioni": fieldTransmission,
	"transmission": fieldTransmission,
	"gearbox":      fieldTransmission,

	"uleset": fieldSeats,
	"seats":  fieldSeats,

	"vin": fieldVIN,

	"engine cc": fieldEngineCC,
	"engine_cc": fieldEngineCC,
	"enginecc":  fieldEngineCC,

	"imazhe url": fieldImages,
	"imazhe":     fieldImages,
	"images":     fieldImages,

	"listing url": fieldListingURL,
	"listing_url": fieldListingURL,

	"opsionet": fieldFeatures,
	"features": fieldFeatures,

	"raporti url":  fieldReportURLs,
	"raporti_url":  fieldReportURLs,
	"report links": fieldReportURLs,
	"report_urls":  fieldReportURLs,

	"burimi": fieldSource,
	"source": fieldSource,

	"external id": fieldExternalID,
	"external_id": fieldExternalID,
}

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeHeader lowercases a header label, strips the BOM, folds diacritics
// (ç to c, ë to e), turns brackets into spaces and collapses whitespace.
func normalizeHeader(raw string) string {
	s := strings.TrimPrefix(raw, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(foldDiacritics, s); err == nil {
		s = folded
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', '[', ']', '{', '}':
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// indexHeaders resolves each known field to its column. The first column wins
// when two headers map to the same field.
func indexHeaders(headers []string) map[field]int {
	idx := make(map[field]int, len(headers))
	for i, h := range headers {
		f, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := idx[f]; !seen {
			idx[f] = i
		}
	}
	return idx
}
