package database_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/bintangmas1/app-point/internal/database"
)

func openFileDB(t *testing.T) *sqlx.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "migrate.db")
	db, err := sqlx.Open("sqlite3", database.SQLiteDSN(path, "DELETE"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationsApplyCleanly(t *testing.T) {
	db := openFileDB(t)

	if err := database.RunMigrations(db, zap.NewNop()); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	for _, table := range []string{"customer", "worker", "activity_log"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?;`, table).Scan(&name)
		if err != nil {
			t.Fatalf("expected %s table to exist: %v", table, err)
		}
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := openFileDB(t)

	if err := database.RunMigrations(db, zap.NewNop()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := database.RunMigrations(db, zap.NewNop()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM darwin_migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 10 {
		t.Errorf("expected 10 recorded migrations, got %d", n)
	}
}

func TestMigrationsSetsApplicationID(t *testing.T) {
	db := openFileDB(t)

	if err := database.RunMigrations(db, zap.NewNop()); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	var appID int
	if err := db.QueryRow("PRAGMA application_id;").Scan(&appID); err != nil {
		t.Fatalf("read application_id: %v", err)
	}
	if appID != database.ApplicationID {
		t.Errorf("expected application_id 0x%X, got 0x%X", database.ApplicationID, appID)
	}
}

func TestVerifyApplicationID(t *testing.T) {
	t.Run("accepts new database with appID 0", func(t *testing.T) {
		db := openFileDB(t)
		if err := database.VerifyApplicationID(db.DB); err != nil {
			t.Errorf("expected no error for new database, got %v", err)
		}
	})

	t.Run("rejects database with wrong appID", func(t *testing.T) {
		db := openFileDB(t)
		if err := database.RunMigrations(db, zap.NewNop()); err != nil {
			t.Fatalf("migrations failed: %v", err)
		}
		if _, err := db.Exec("PRAGMA application_id = 305419896;"); err != nil { // 0x12345678
			t.Fatalf("set application_id: %v", err)
		}

		err := database.VerifyApplicationID(db.DB)
		if !errors.Is(err, database.ErrInvalidDatabase) {
			t.Errorf("expected ErrInvalidDatabase, got %v", err)
		}
	})

	t.Run("rejects database with tables but no appID", func(t *testing.T) {
		db := openFileDB(t)
		if _, err := db.Exec("CREATE TABLE other_app (id INTEGER);"); err != nil {
			t.Fatalf("create table: %v", err)
		}

		err := database.VerifyApplicationID(db.DB)
		if !errors.Is(err, database.ErrInvalidDatabase) {
			t.Errorf("expected ErrInvalidDatabase, got %v", err)
		}
	})
}

func TestSchemaPerDialect(t *testing.T) {
	lite := database.Schema(database.SQLite)
	if !strings.Contains(lite, "application_id") {
		t.Error("sqlite schema should set application_id")
	}

	pg := database.Schema(database.Postgres)
	if strings.Contains(pg, "PRAGMA") {
		t.Error("postgres schema must not contain PRAGMA statements")
	}
	if !strings.Contains(pg, "activity_log") {
		t.Error("postgres schema should create activity_log")
	}
}

func TestParseDialect(t *testing.T) {
	cases := map[string]database.Dialect{
		"":           database.SQLite,
		"sqlite3":    database.SQLite,
		"SQLite":     database.SQLite,
		"postgres":   database.Postgres,
		"postgresql": database.Postgres,
	}
	for in, want := range cases {
		got, err := database.ParseDialect(in)
		if err != nil {
			t.Errorf("ParseDialect(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseDialect(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := database.ParseDialect("mysql"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}
