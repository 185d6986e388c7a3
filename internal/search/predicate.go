package search

import (
	"strconv"
	"strings"

	"github.com/angelmondragon/autosallon-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClauseKind tags the variant held by a Clause.
type ClauseKind uint8

const (
	ClauseText ClauseKind = iota + 1
	ClauseIn
	ClauseRange
)

// Clause is one condition of a Predicate. Only the fields of its kind are set.
type Clause struct {
	kind    ClauseKind
	columns []Column
	needle  string
	column  Column
	values  []string
	min     *int
	max     *int
}

func (c Clause) Kind() ClauseKind { return c.kind }
func (c Clause) Column() Column   { return c.column }
func (c Clause) Needle() string   { return c.needle }
func (c Clause) Min() *int        { return copyInt(c.min) }
func (c Clause) Max() *int        { return copyInt(c.max) }

func (c Clause) Columns() []Column {
	return append([]Column(nil), c.columns...)
}

func (c Clause) Values() []string {
	return append([]string(nil), c.values...)
}

// Predicate is the immutable conjunction of clauses derived from a FilterState.
// It is built once per request and shared by the facet and result queries.
type Predicate struct {
	clauses []Clause
}

// Build translates a filter state into a predicate. Clause order is stable:
// text, then facet selections in FacetColumns order, then year, price and
// mileage ranges.
func Build(state FilterState) Predicate {
	var clauses []Clause

	if needle := strings.ToLower(strings.TrimSpace(state.Query)); needle != "" {
		clauses = append(clauses, Clause{
			kind:    ClauseText,
			columns: append([]Column(nil), SearchableColumns...),
			needle:  needle,
		})
	}

	for _, col := range FacetColumns {
		values := state.Selections[col]
		if len(values) == 0 {
			continue
		}
		clauses = append(clauses, Clause{
			kind:   ClauseIn,
			column: col,
			values: append([]string(nil), values...),
		})
	}

	for _, r := range []struct {
		col Column
		rng Range
	}{
		{ColumnYear, state.Year},
		{ColumnPrice, state.Price},
		{ColumnMileage, state.Mileage},
	} {
		if r.rng.IsZero() {
			continue
		}
		clauses = append(clauses, Clause{
			kind:   ClauseRange,
			column: r.col,
			min:    copyInt(r.rng.Min),
			max:    copyInt(r.rng.Max),
		})
	}

	return Predicate{clauses: clauses}
}

// Clauses returns a copy of the clause list.
func (p Predicate) Clauses() []Clause {
	return append([]Clause(nil), p.clauses...)
}

// IsEmpty reports whether the predicate matches every record.
func (p Predicate) IsEmpty() bool {
	return len(p.clauses) == 0
}

// Expressions renders the predicate as GORM clause expressions.
func (p Predicate) Expressions() []clause.Expression {
	exprs := make([]clause.Expression, 0, len(p.clauses))
	for _, c := range p.clauses {
		switch c.kind {
		case ClauseText:
			pattern := "%" + escapeLike(c.needle) + "%"
			ors := make([]clause.Expression, 0, len(c.columns))
			for _, col := range c.columns {
				ors = append(ors, clause.Expr{
					SQL:  `LOWER(?) LIKE ? ESCAPE '\'`,
					Vars: []any{clause.Column{Name: string(col)}, pattern},
				})
			}
			exprs = append(exprs, clause.Or(ors...))
		case ClauseIn:
			exprs = append(exprs, clause.IN{
				Column: clause.Column{Name: string(c.column)},
				Values: inValues(c.column, c.values),
			})
		case ClauseRange:
			col := clause.Column{Name: string(c.column)}
			if c.min != nil {
				exprs = append(exprs, clause.Gte{Column: col, Value: *c.min})
			}
			if c.max != nil {
				exprs = append(exprs, clause.Lte{Column: col, Value: *c.max})
			}
		}
	}
	return exprs
}

// Scope applies the predicate to a vehicles query. Usable with db.Scopes.
func (p Predicate) Scope(db *gorm.DB) *gorm.DB {
	exprs := p.Expressions()
	if len(exprs) == 0 {
		return db
	}
	return db.Clauses(clause.Where{Exprs: exprs})
}

// Matches evaluates the predicate against an in-memory vehicle with the same
// semantics as the SQL rendering.
func (p Predicate) Matches(v models.Vehicle) bool {
	for _, c := range p.clauses {
		switch c.kind {
		case ClauseText:
			hit := false
			for _, col := range c.columns {
				if s, ok := columnString(v, col); ok && strings.Contains(strings.ToLower(s), c.needle) {
					hit = true
					break
				}
			}
			if !hit {
				return false
			}
		case ClauseIn:
			s, ok := columnString(v, c.column)
			if !ok || !containsString(c.values, s) {
				return false
			}
		case ClauseRange:
			n, ok := columnInt(v, c.column)
			if !ok {
				return false
			}
			if c.min != nil && n < *c.min {
				return false
			}
			if c.max != nil && n > *c.max {
				return false
			}
		}
	}
	return true
}

func inValues(col Column, values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		if col.Numeric() {
			n, err := strconv.Atoi(v)
			if err != nil {
				continue
			}
			out = append(out, n)
			continue
		}
		out = append(out, v)
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func columnString(v models.Vehicle, col Column) (string, bool) {
	switch col {
	case ColumnManufacturer:
		return v.Manufacturer, true
	case ColumnModel:
		return v.Model, true
	case ColumnTrim:
		return deref(v.Trim)
	case ColumnVIN:
		return deref(v.VIN)
	case ColumnColor:
		return deref(v.Color)
	case ColumnFuel:
		return deref(v.Fuel)
	case ColumnTransmission:
		return deref(v.Transmission)
	}
	if n, ok := columnInt(v, col); ok {
		return strconv.Itoa(n), true
	}
	return "", false
}

func columnInt(v models.Vehicle, col Column) (int, bool) {
	var ptr *int
	switch col {
	case ColumnSeats:
		ptr = v.Seats
	case ColumnYear:
		ptr = v.Year
	case ColumnPrice:
		ptr = v.Price
	case ColumnMileage:
		ptr = v.Mileage
	}
	if ptr == nil {
		return 0, false
	}
	return *ptr, true
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
