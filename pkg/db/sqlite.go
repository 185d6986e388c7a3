package db

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const sqliteDriverName = "sqlite3_unicode"

var registerSQLiteOnce sync.Once

// SQLiteDialector opens dsn with a sqlite3 driver whose lower() folds
// non-ASCII letters the same way postgres does. The built-in lower() only
// folds A-Z, which breaks case-insensitive text search on names like Škoda.
func SQLiteDialector(dsn string) gorm.Dialector {
	registerSQLiteOnce.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", unicodeLower, true)
			},
		})
	})
	return sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: dsn})
}

func unicodeLower(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	default:
		return v
	}
}
