package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/autosallon-backend/pkg/db/models"
	"github.com/angelmondragon/autosallon-backend/pkg/enums"
	"github.com/angelmondragon/autosallon-backend/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordStore gives the orchestrator a consistent read view of the catalog.
type RecordStore interface {
	Snapshot(ctx context.Context, fn func(Reader) error) error
}

// Reader runs catalog queries inside one snapshot.
type Reader interface {
	Filter(pred Predicate) RecordSet
	CountDistinct(ctx context.Context, pred Predicate, spec FacetSpec) ([]FacetValue, error)
	SortAndPaginate(ctx context.Context, set RecordSet, sort enums.SortKey, page pagination.Params) ([]models.Vehicle, int64, error)
}

// RecordSet is a filtered, not yet ordered or paginated, set of vehicles.
type RecordSet struct {
	Predicate Predicate
	query     *gorm.DB
}

// FacetValue is one (value, count) pair of a facet.
type FacetValue struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type txRunner interface {
	WithReadTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Store is the GORM backed RecordStore.
type Store struct {
	db txRunner
}

// NewStore wires the store to a transaction runner such as *db.Client.
func NewStore(db txRunner) (*Store, error) {
	if db == nil {
		return nil, errors.New("db client required")
	}
	return &Store{db: db}, nil
}

// Snapshot runs fn inside a single read transaction so facet counts, totals
// and the result page all observe the same rows.
func (s *Store) Snapshot(ctx context.Context, fn func(Reader) error) error {
	return s.db.WithReadTx(ctx, func(tx *gorm.DB) error {
		return fn(&gormReader{tx: tx})
	})
}

type gormReader struct {
	tx *gorm.DB
}

func (r *gormReader) base(ctx context.Context) *gorm.DB {
	return r.tx.WithContext(ctx).Model(&models.Vehicle{})
}

func (r *gormReader) Filter(pred Predicate) RecordSet {
	return RecordSet{Predicate: pred, query: r.tx.Model(&models.Vehicle{}).Scopes(pred.Scope)}
}

func (r *gormReader) CountDistinct(ctx context.Context, pred Predicate, spec FacetSpec) ([]FacetValue, error) {
	if spec.Limit <= 0 {
		return []FacetValue{}, nil
	}

	col := clause.Column{Name: string(spec.Column)}
	q := r.base(ctx).
		Scopes(pred.Scope).
		Select("CAST(? AS TEXT) AS value, COUNT(*) AS total", col).
		Where(clause.Expr{SQL: "? IS NOT NULL", Vars: []any{col}})
	if !spec.Column.Numeric() {
		q = q.Where(clause.Neq{Column: col, Value: ""})
	}

	var rows []struct {
		Value string
		Total int64
	}
	err := q.Group(string(spec.Column)).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "total", Raw: true}, Desc: true},
			{Column: col, Desc: spec.TieBreak == TieBreakValueDesc},
		}}).
		Limit(spec.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("facet %s: %w", spec.Column, err)
	}

	out := make([]FacetValue, 0, len(rows))
	for _, row := range rows {
		out = append(out, FacetValue{Value: row.Value, Count: row.Total})
	}
	return out, nil
}

// Orderings keep nulls last in both directions and fall back to creation
// order so pages are deterministic.
var sortOrders = map[enums.SortKey]string{
	enums.SortNewest:    "created_at DESC, id DESC",
	enums.SortPriceAsc:  "price ASC NULLS LAST, created_at DESC, id DESC",
	enums.SortPriceDesc: "price DESC NULLS LAST, created_at DESC, id DESC",
	enums.SortKmAsc:     "mileage ASC NULLS LAST, created_at DESC, id DESC",
	enums.SortKmDesc:    "mileage DESC NULLS LAST, created_at DESC, id DESC",
	enums.SortYearDesc:  "year DESC NULLS LAST, created_at DESC, id DESC",
	enums.SortYearAsc:   "year ASC NULLS LAST, created_at DESC, id DESC",
}

// OrderClause returns the ORDER BY text for a sort key.
func OrderClause(sort enums.SortKey) string {
	if order, ok := sortOrders[sort]; ok {
		return order
	}
	return sortOrders[enums.SortNewest]
}

func (r *gormReader) SortAndPaginate(ctx context.Context, set RecordSet, sort enums.SortKey, page pagination.Params) ([]models.Vehicle, int64, error) {
	page = pagination.Normalize(page)
	query := set.query
	if query == nil {
		query = r.Filter(set.Predicate).query
	}

	var total int64
	if err := query.Session(&gorm.Session{}).WithContext(ctx).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count vehicles: %w", err)
	}

	items := []models.Vehicle{}
	if total == 0 || int64(page.Offset()) >= total {
		return items, total, nil
	}

	err := query.Session(&gorm.Session{}).WithContext(ctx).
		Order(OrderClause(sort)).
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list vehicles: %w", err)
	}
	return items, total, nil
}
