// Package demodata provides sample data for demo deployments.
package demodata

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bintangmas1/app-point/internal/worker"
)

//go:embed sample.sql
var sampleSQL embed.FS

// Demo worker credentials, printed at startup in demo mode.
const (
	DemoUsername = "demo"
	DemoPassword = "demo1234"
)

// Load inserts demo data into the database.
// This should only be called on a freshly created database after migrations.
func Load(ctx context.Context, db *sqlx.DB, workers *worker.Service) error {
	if _, err := workers.Create(ctx, "Demo Worker", DemoUsername, DemoPassword); err != nil {
		return fmt.Errorf("create demo worker: %w", err)
	}

	data, err := sampleSQL.ReadFile("sample.sql")
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, string(data))
	return err
}
