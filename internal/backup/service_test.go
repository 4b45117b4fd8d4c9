package backup_test

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bintangmas1/app-point/internal/backup"
	"github.com/bintangmas1/app-point/internal/customer"
	"github.com/bintangmas1/app-point/internal/database"
	"github.com/bintangmas1/app-point/internal/testutil"
)

func readDump(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(gz)
	require.NoError(t, err)
	return string(data)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db := testutil.NewTestDBAt(t, filepath.Join(dir, "point.db"))

	customers := customer.NewService(db)
	c, err := customers.Create(ctx, &customer.Customer{Name: "O'Brien", Status: true})
	require.NoError(t, err)
	ok, err := customers.SwapPoints(ctx, c.ID, 0, 320)
	require.NoError(t, err)
	require.True(t, ok)

	svc := backup.NewService(db, filepath.Join(dir, "backups"), zap.NewNop())
	res, err := svc.Create(ctx)
	require.NoError(t, err)

	assert.FileExists(t, res.Path)
	assert.Positive(t, res.Size)
	assert.Positive(t, res.Rows)
	assert.NoFileExists(t, filepath.Join(dir, "backups", ".snapshot.db"))

	dump := readDump(t, res.Path)
	assert.Contains(t, dump, "PRAGMA application_id=")
	assert.Contains(t, dump, `INSERT INTO "customer"`)
	assert.Contains(t, dump, "'O''Brien'")

	// The dump restores into an empty database.
	restored, err := sqlx.Open("sqlite3", filepath.Join(dir, "restored.db"))
	require.NoError(t, err)
	defer restored.Close()
	_, err = restored.Exec(dump)
	require.NoError(t, err)

	require.NoError(t, database.VerifyApplicationID(restored.DB))
	var point int64
	require.NoError(t, restored.Get(&point, `SELECT point FROM customer WHERE customer_id = ?`, c.ID))
	assert.Equal(t, int64(320), point)
}
