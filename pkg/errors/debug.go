package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorDump is the log-only view of an error chain. Nothing in it is sent to clients.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`
	DB         *DBDump  `json:"db,omitempty"`
}

// DBDump carries whatever the database driver reported.
type DBDump struct {
	Driver     string `json:"driver"`
	Kind       string `json:"kind,omitempty"`
	Code       string `json:"code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{TopMessage: err.Error(), DB: dbDump(err)}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	return d
}

// LogFields flattens the dump for structured logging.
func (d ErrorDump) LogFields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.DB != nil {
		fields["db"] = d.DB
	}
	return fields
}

func dbDump(err error) *DBDump {
	var pgxErr *pgconn.PgError
	if stdErrors.As(err, &pgxErr) {
		return &DBDump{
			Driver:     "pgx",
			Kind:       gormKind(err),
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}

	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		return &DBDump{
			Driver:     "pq",
			Kind:       gormKind(err),
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}

	// sqlite only reports text, e.g. "UNIQUE constraint failed: vehicles.source, vehicles.external_id"
	if d := sqliteDump(err.Error()); d != nil {
		d.Kind = gormKind(err)
		return d
	}

	if kind := gormKind(err); kind != "" {
		return &DBDump{Driver: "gorm", Kind: kind}
	}
	return nil
}

const sqliteConstraintMarker = " constraint failed: "

func sqliteDump(msg string) *DBDump {
	idx := strings.Index(msg, sqliteConstraintMarker)
	if idx < 0 {
		return nil
	}
	head := msg[:idx]
	rest, _, _ := strings.Cut(msg[idx+len(sqliteConstraintMarker):], "\n")
	d := &DBDump{
		Driver:     "sqlite",
		Constraint: strings.ToLower(head[strings.LastIndexAny(head, " :\n")+1:]),
		Message:    head[strings.LastIndex(head, "\n")+1:] + sqliteConstraintMarker + rest,
	}
	first, _, _ := strings.Cut(rest, ",")
	if table, column, ok := strings.Cut(strings.TrimSpace(first), "."); ok {
		d.Table, d.Column = table, column
	}
	return d
}

func gormKind(err error) string {
	switch {
	case stdErrors.Is(err, gorm.ErrRecordNotFound):
		return "not_found"
	case stdErrors.Is(err, gorm.ErrDuplicatedKey):
		return "duplicate_key"
	case stdErrors.Is(err, gorm.ErrForeignKeyViolated):
		return "foreign_key"
	}
	return ""
}
