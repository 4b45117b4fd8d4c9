// Package database opens the record store and keeps its schema current.
// Two backends are supported: a local sqlite3 file and a hosted postgres.
package database

import (
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect identifies the SQL backend behind a *sqlx.DB.
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	Postgres Dialect = "postgres"
)

// ParseDialect validates a configured driver name.
func ParseDialect(driver string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(driver))) {
	case SQLite, "sqlite", "":
		return SQLite, nil
	case Postgres, "postgresql":
		return Postgres, nil
	}
	return "", fmt.Errorf("unsupported db driver %q", driver)
}

// DialectOf reports which backend an open handle talks to.
func DialectOf(db *sqlx.DB) Dialect {
	if db.DriverName() == string(Postgres) {
		return Postgres
	}
	return SQLite
}

// Builder returns a squirrel statement builder with the placeholder
// format the backend expects.
func Builder(db *sqlx.DB) sq.StatementBuilderType {
	if DialectOf(db) == Postgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// SQLiteDSN appends the connection parameters every sqlite connection in
// the pool needs. Foreign keys must be on for cascade deletes of the
// activity log.
func SQLiteDSN(path, journalMode string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000&_journal_mode=" + journalMode
}

// Open connects to the store. For sqlite3 the dsn is a file path; for
// postgres it is a connection URL.
func Open(dialect Dialect, dsn string) (*sqlx.DB, error) {
	switch dialect {
	case Postgres:
		db, err := sqlx.Connect(string(Postgres), dsn)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return db, nil
	case SQLite:
		db, err := sqlx.Connect(string(SQLite), SQLiteDSN(dsn, "WAL"))
		if err != nil {
			return nil, fmt.Errorf("connect sqlite: %w", err)
		}
		if err := VerifyForeignKeys(db); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	}
	return nil, fmt.Errorf("unsupported dialect %q", dialect)
}

// VerifyForeignKeys checks that sqlite enforces foreign keys on this handle.
func VerifyForeignKeys(db *sqlx.DB) error {
	var fkEnabled int
	if err := db.QueryRow(`PRAGMA foreign_keys;`).Scan(&fkEnabled); err != nil {
		return errors.New("SQLite foreign key support check failed: " + err.Error())
	}
	if fkEnabled != 1 {
		return errors.New("SQLite foreign keys not supported (requires SQLite 3.6.19+ compiled without SQLITE_OMIT_FOREIGN_KEY)")
	}
	return nil
}
