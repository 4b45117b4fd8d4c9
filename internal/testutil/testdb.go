package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/bintangmas1/app-point/internal/database"
)

func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return NewTestDBAt(t, filepath.Join(t.TempDir(), "test.db"))
}

func NewTestDBAt(t *testing.T, dbPath string) *sqlx.DB {
	t.Helper()

	// DELETE mode for tests
	db, err := sqlx.Open("sqlite3", database.SQLiteDSN(dbPath, "DELETE"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	// Register cleanup immediately
	t.Cleanup(func() {
		db.Close()
	})

	if err := database.VerifyForeignKeys(db); err != nil {
		t.Fatal(err)
	}

	if err := database.RunMigrations(db, zap.NewNop()); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	return db
}
