// Package backup writes compressed SQL dumps of a sqlite record store.
// A hosted postgres store is backed up by its provider instead.
package backup

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/bintangmas1/app-point/internal/database"
)

var ErrUnsupported = errors.New("backups are only available for the sqlite store")

type Service struct {
	db     *sqlx.DB
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// NewService writes dumps into dir, created on first use.
func NewService(db *sqlx.DB, dir string, logger *zap.Logger) *Service {
	return &Service{db: db, dir: dir, logger: logger, now: time.Now}
}

// Result describes a finished dump.
type Result struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Rows     int    `json:"rows"`
}

// Create snapshots the database with VACUUM INTO and writes a gzipped
// SQL script that recreates it, application id included.
func (s *Service) Create(ctx context.Context) (*Result, error) {
	if database.DialectOf(s.db) != database.SQLite {
		return nil, ErrUnsupported
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	filename := s.now().Format("2006-01-02_150405") + "_pointadmin.sql.gz"
	path := filepath.Join(s.dir, filename)

	snapshot := filepath.Join(s.dir, ".snapshot.db")
	os.Remove(snapshot)
	defer os.Remove(snapshot)

	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, snapshot); err != nil {
		return nil, fmt.Errorf("vacuum into snapshot: %w", err)
	}
	snap, err := sqlx.Open("sqlite3", "file:"+snapshot+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer snap.Close()

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create backup file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	rows, err := s.dump(ctx, snap, gz)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("close gzip writer: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat backup file: %w", err)
	}

	s.logger.Info("database backup written",
		zap.String("path", path),
		zap.Int64("bytes", info.Size()),
		zap.Int("rows", rows))

	return &Result{Filename: filename, Path: path, Size: info.Size(), Rows: rows}, nil
}

type schemaObject struct {
	Type string `db:"type"`
	Name string `db:"name"`
	SQL  string `db:"sql"`
}

// dump writes the schema then one INSERT per row. It returns the row count.
func (s *Service) dump(ctx context.Context, db *sqlx.DB, out io.Writer) (int, error) {
	w := bufio.NewWriter(out)

	fmt.Fprintf(w, "-- Point Admin database backup\n-- Generated: %s\n", s.now().UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "PRAGMA application_id=%d;\nPRAGMA foreign_keys=OFF;\nBEGIN TRANSACTION;\n\n", database.ApplicationID)

	var schema []schemaObject
	err := db.SelectContext(ctx, &schema, `
		SELECT type, name, sql FROM sqlite_master
		WHERE sql IS NOT NULL AND name NOT LIKE 'sqlite_%'
		ORDER BY CASE type WHEN 'table' THEN 1 WHEN 'index' THEN 2 ELSE 3 END, name`)
	if err != nil {
		return 0, fmt.Errorf("query schema: %w", err)
	}

	var tables []string
	for _, obj := range schema {
		fmt.Fprintf(w, "%s;\n", obj.SQL)
		if obj.Type == "table" {
			tables = append(tables, obj.Name)
		}
	}
	w.WriteString("\n")

	total := 0
	for _, table := range tables {
		n, err := dumpTable(ctx, db, w, table)
		if err != nil {
			return 0, fmt.Errorf("dump %s: %w", table, err)
		}
		total += n
	}

	w.WriteString("COMMIT;\nPRAGMA foreign_keys=ON;\n")
	return total, w.Flush()
}

func dumpTable(ctx context.Context, db *sqlx.DB, w *bufio.Writer, table string) (int, error) {
	rows, err := db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %q", table))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return 0, err
	}
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = fmt.Sprintf("%q", col)
	}
	prefix := fmt.Sprintf("INSERT INTO %q (%s) VALUES (", table, strings.Join(quoted, ", "))

	n := 0
	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return 0, err
		}
		values := make([]string, len(row))
		for i, v := range row {
			values[i] = literal(v)
		}
		w.WriteString(prefix)
		w.WriteString(strings.Join(values, ", "))
		w.WriteString(");\n")
		n++
	}
	return n, rows.Err()
}

// literal renders a scanned value as a sqlite SQL literal.
func literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return quote(string(val))
	case string:
		return quote(val)
	case int64, float64:
		return fmt.Sprintf("%v", val)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case time.Time:
		return quote(val.Format("2006-01-02 15:04:05.999999999-07:00"))
	default:
		return quote(fmt.Sprintf("%v", val))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
