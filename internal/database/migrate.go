package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/GuiaBolso/darwin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ApplicationID is the SQLite application_id for point admin databases.
// "POIN" in ASCII: P=0x50, O=0x4F, I=0x49, N=0x4E
const ApplicationID = 0x504F494E

// ErrInvalidDatabase is returned when the database belongs to another application.
var ErrInvalidDatabase = errors.New("not a valid 'pointadmin' database")

// defineMigrations returns the schema steps for a dialect.
// comments must only appear after sql on a line and cannot span lines (comments are stripped before checksum calc)
// *NEVER* change/remove a step once released! (because a checksum of the script is saved with the migration)
func defineMigrations(d Dialect) []darwin.Migration {
	var m []darwin.Migration

	// Only sqlite files carry an application id; postgres starts at 1.01.
	if d == SQLite {
		m = append(m, darwin.Migration{Version: 1.00, Description: "Set application_id", Script: `
		PRAGMA application_id = 0x504F494E;`})
	}

	m = append(m, []darwin.Migration{
		{Version: 1.01, Description: "Create Table 'customer'", Script: `
		CREATE TABLE IF NOT EXISTS customer (
			customer_id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			address VARCHAR(255) NOT NULL DEFAULT '',
			phone VARCHAR(50) NOT NULL DEFAULT '',
			point BIGINT NOT NULL DEFAULT 0,
			status BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL
		);`},

		{Version: 1.02, Description: "Create Unique Index 'idx_customer_name'", Script: `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_customer_name ON customer (LOWER(name));`},

		{Version: 1.03, Description: "Create Index 'idx_customer_point'", Script: `
		CREATE INDEX IF NOT EXISTS idx_customer_point ON customer (point DESC);`},

		{Version: 1.04, Description: "Create Table 'worker'", Script: `
		CREATE TABLE IF NOT EXISTS worker (
			worker_id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			username VARCHAR(100) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			is_super_admin BOOLEAN NOT NULL DEFAULT FALSE,
			status BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL
		);`},

		{Version: 1.05, Description: "Create Unique Index 'idx_worker_username'", Script: `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_worker_username ON worker (LOWER(username));`},

		{Version: 1.06, Description: "Create Table 'activity_log'", Script: `
		CREATE TABLE IF NOT EXISTS activity_log (
			log_id VARCHAR(36) PRIMARY KEY,
			customer_id VARCHAR(36),
			worker_id VARCHAR(36) NOT NULL,
			note TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (customer_id) REFERENCES customer (customer_id) ON DELETE CASCADE,
			FOREIGN KEY (worker_id) REFERENCES worker (worker_id) ON DELETE CASCADE
		);`},

		{Version: 1.07, Description: "Create Index 'idx_log_customer_id'", Script: `
		CREATE INDEX IF NOT EXISTS idx_log_customer_id ON activity_log (customer_id);`},

		{Version: 1.08, Description: "Create Index 'idx_log_worker_id'", Script: `
		CREATE INDEX IF NOT EXISTS idx_log_worker_id ON activity_log (worker_id);`},

		{Version: 1.09, Description: "Create Index 'idx_log_created_at'", Script: `
		CREATE INDEX IF NOT EXISTS idx_log_created_at ON activity_log (created_at DESC);`},
	}...)
	return m
}

// changes returns a user-friendly display of database version changes
func changes(v1, v2 float64) string {
	if v1 != v2 {
		return fmt.Sprintf("DB Version: %.2f (migrated from %.2f to %.2f)", v2, v1, v2)
	}
	return fmt.Sprintf("DB Version: %.2f", v1)
}

// currentVersion reads from migration table to get the latest version and number of steps applied
func currentVersion(db *sql.DB, d Dialect) (count int, ver float64, err error) {
	// might not have any migrations yet...
	s := `select count(*) as n from sqlite_master where tbl_name = 'darwin_migrations';`
	if d == Postgres {
		s = `select count(*) as n from information_schema.tables where table_name = 'darwin_migrations';`
	}
	err = db.QueryRow(s).Scan(&count)
	if err != nil || count == 0 {
		return 0, 0, err
	}

	s = `select count(*) as n, max(version) as ver from darwin_migrations;`
	err = db.QueryRow(s).Scan(&count, &ver)
	return count, ver, err
}

// minifiedMigrations returns our migrations with minified scripts so comments or formatting changes
// will not generate a new checksum
func minifiedMigrations(d Dialect) []darwin.Migration {
	migrations := defineMigrations(d)
	for i := range migrations {
		migrations[i].Script = minify(migrations[i].Script)
	}
	return migrations
}

// minify simplifies the script to keep certain changes (spaces, tabs, case and comments) from
// creating a new checksum
func minify(script string) string {
	b := strings.Builder{}
	s := strings.ToLower(strings.ReplaceAll(script, "/*", "--"))
	for _, line := range strings.Split(s, "\n") {
		if i := strings.Index(line, "--"); i != -1 {
			line = line[0:i]
		}
		b.WriteString(strings.TrimSpace(line) + "\n")
	}
	result := strings.TrimSpace(strings.ReplaceAll(b.String(), "\t", " "))
	before := 0
	for len(result) != before {
		before = len(result)
		result = strings.ReplaceAll(result, "  ", " ")
	}
	return strings.TrimSpace(result)
}

// progress returns the steps attempted during this migration
func progress(ch <-chan darwin.MigrationInfo) string {
	var b strings.Builder
	for info := range ch {
		_, _ = fmt.Fprintf(&b, "v%.2f: \"%s\" (%s) Error: %v\n",
			info.Migration.Version, info.Migration.Description, info.Status.String(), info.Error)
	}
	return b.String()
}

// Schema returns the schema definitions for a dialect as a string for display.
func Schema(d Dialect) string {
	var b strings.Builder
	for _, m := range defineMigrations(d) {
		_, _ = fmt.Fprintf(&b, "-- %s (%.2f)\n%s\n\n", m.Description, m.Version, m.Script)
	}
	return b.String()
}

// VerifyApplicationID checks that a sqlite database has our application_id.
// Empty databases (application_id = 0, no tables) are accepted.
func VerifyApplicationID(db *sql.DB) error {
	var appID int
	if err := db.QueryRow("PRAGMA application_id;").Scan(&appID); err != nil {
		return fmt.Errorf("read application_id: %w", err)
	}

	if appID == ApplicationID {
		return nil
	}
	if appID != 0 {
		return fmt.Errorf("%w (application_id 0x%X)", ErrInvalidDatabase, appID)
	}

	var tableCount int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'`).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check tables: %w", err)
	}
	if tableCount > 0 {
		return fmt.Errorf("%w (has tables but no application_id)", ErrInvalidDatabase)
	}
	return nil
}

// RunMigrations applies all pending migrations to an open database.
func RunMigrations(db *sqlx.DB, logger *zap.Logger) error {
	d := DialectOf(db)
	if d == SQLite {
		if err := VerifyApplicationID(db.DB); err != nil {
			return err
		}
	}

	count, v1, err := currentVersion(db.DB, d)
	if err != nil {
		return err
	}

	migrations := minifiedMigrations(d)
	if count == len(migrations) && v1 == migrations[count-1].Version {
		logger.Info("database is current, no migrations needed", zap.Float64("version", v1))
		return nil
	}

	var dialect darwin.Dialect = darwin.SqliteDialect{}
	if d == Postgres {
		dialect = darwin.PostgresDialect{}
	}
	driver := darwin.NewGenericDriver(db.DB, dialect)
	infoChan := make(chan darwin.MigrationInfo, len(migrations))
	dw := darwin.New(driver, migrations, infoChan)

	if err := dw.Migrate(); err != nil {
		close(infoChan)
		_, v2, _ := currentVersion(db.DB, d)
		prog := progress(infoChan)
		logger.Error("migration failed",
			zap.Float64("from", v1),
			zap.Float64("now", v2),
			zap.String("progress", prog),
			zap.Error(err))
		return fmt.Errorf("migration error: %w\n%s", err, prog)
	}
	close(infoChan)

	_, v2, err := currentVersion(db.DB, d)
	if err != nil {
		return err
	}

	logger.Info(changes(v1, v2))
	return nil
}
