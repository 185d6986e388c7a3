// Package importer loads vehicle listings from CSV exports.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/angelmondragon/autosallon-backend/internal/vehicles"
	"github.com/angelmondragon/autosallon-backend/pkg/db/models"
	"github.com/angelmondragon/autosallon-backend/pkg/imagelist"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
	"github.com/angelmondragon/autosallon-backend/pkg/metrics"
	"go.uber.org/multierr"
)

// minRecognizedHeaders below this count triggers a header warning.
const minRecognizedHeaders = 3

// Options tune a single import run.
type Options struct {
	// Truncate removes every vehicle before importing.
	Truncate bool
	// Source is used for rows whose CSV has no source column.
	Source string
}

// Result summarizes an import run. Err aggregates the per-row failures.
type Result struct {
	Rows      int
	Inserted  int
	Updated   int
	Skipped   int
	Truncated int64
	Matched   int
	Err       error
}

type vehicleStore interface {
	Create(ctx context.Context, v *models.Vehicle) error
	UpsertByExternalKey(ctx context.Context, v *models.Vehicle) (bool, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Importer writes CSV rows into the vehicle catalog.
type Importer struct {
	store   vehicleStore
	metrics *metrics.ImportMetrics
	logg    *logger.Logger
}

// New builds an importer. metrics may be nil.
func New(repo *vehicles.Repository, m *metrics.ImportMetrics, logg *logger.Logger) (*Importer, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicle repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Importer{store: repo, metrics: m, logg: logg}, nil
}

// Import reads the header row and every data row from r. Row failures are
// collected in Result.Err and do not stop the run; header and truncate
// failures are returned as errors.
func (i *Importer) Import(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv has no header row")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := indexHeaders(headers)
	result := &Result{Matched: len(idx)}
	if len(idx) < minRecognizedHeaders {
		i.logg.Warn(i.logg.WithField(ctx, "matched_headers", len(idx)), "import.headers_unrecognized")
	}

	if opts.Truncate {
		removed, err := i.store.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("truncate vehicles: %w", err)
		}
		result.Truncated = removed
		i.logg.Info(i.logg.WithField(ctx, "removed", removed), "import.truncated")
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("read csv: %w", err)
			}
			result.Skipped++
			result.Err = multierr.Append(result.Err, err)
			continue
		}
		line, _ := reader.FieldPos(0)
		if isBlank(record) {
			continue
		}
		result.Rows++

		v, err := buildVehicle(record, idx, opts.Source)
		if err != nil {
			result.Skipped++
			result.Err = multierr.Append(result.Err, fmt.Errorf("line %d: %w", line, err))
			continue
		}

		created, err := i.save(ctx, v)
		if err != nil {
			result.Skipped++
			result.Err = multierr.Append(result.Err, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if created {
			result.Inserted++
		} else {
			result.Updated++
		}
	}

	i.metrics.AddRows("inserted", result.Inserted)
	i.metrics.AddRows("updated", result.Updated)
	i.metrics.AddRows("skipped", result.Skipped)

	logCtx := i.logg.WithFields(ctx, map[string]any{
		"rows":     result.Rows,
		"inserted": result.Inserted,
		"updated":  result.Updated,
		"skipped":  result.Skipped,
	})
	if result.Err != nil {
		i.logg.Warn(logCtx, "import.completed_with_errors")
	} else {
		i.logg.Info(logCtx, "import.completed")
	}
	return result, nil
}

func (i *Importer) save(ctx context.Context, v *models.Vehicle) (bool, error) {
	if v.Source != nil && v.ExternalID != nil {
		return i.store.UpsertByExternalKey(ctx, v)
	}
	if err := i.store.Create(ctx, v); err != nil {
		return false, err
	}
	return true, nil
}

func buildVehicle(record []string, idx map[field]int, defaultSource string) (*models.Vehicle, error) {
	get := func(f field) string {
		col, ok := idx[f]
		if !ok || col >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[col])
	}

	v := &models.Vehicle{
		Manufacturer: get(fieldManufacturer),
		Model:        get(fieldModel),
		Trim:         optionalString(get(fieldTrim)),
		Year:         optionalInt(get(fieldYear)),
		Price:        optionalInt(get(fieldPrice)),
		Mileage:      optionalInt(get(fieldMileage)),
		Fuel:         optionalString(get(fieldFuel)),
		Color:        optionalString(get(fieldColor)),
		Transmission: optionalString(get(fieldTransmission)),
		Seats:        optionalInt(get(fieldSeats)),
		VIN:          optionalString(get(fieldVIN)),
		EngineCC:     optionalInt(get(fieldEngineCC)),
		Images:       imagelist.Parse(get(fieldImages)),
		ListingURL:   optionalString(get(fieldListingURL)),
		Features:     optionalString(get(fieldFeatures)),
		ReportURLs:   optionalString(get(fieldReportURLs)),
		Source:       optionalString(get(fieldSource)),
		ExternalID:   optionalString(get(fieldExternalID)),
	}
	if v.Manufacturer == "" || v.Model == "" {
		return nil, fmt.Errorf("manufacturer and model are required")
	}
	if v.Source == nil {
		v.Source = optionalString(defaultSource)
	}
	return v, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// optionalInt keeps only the digits of s ("12.500 €" is 12500). Zero and
// digit-free values are null.
func optionalInt(s string) *int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n == 0 {
		return nil
	}
	return &n
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
