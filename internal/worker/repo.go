package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/bintangmas1/app-point/internal/database"
)

var (
	ErrNotFound          = errors.New("worker not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

type Repository interface {
	List(ctx context.Context, f Filter) ([]Worker, error)
	Get(ctx context.Context, id string) (*Worker, error)
	GetByUsername(ctx context.Context, username string) (*Worker, error)
	Create(ctx context.Context, tx *sqlx.Tx, w *Worker) error
	Update(ctx context.Context, tx *sqlx.Tx, w *Worker) error
	SetPassword(ctx context.Context, tx *sqlx.Tx, id, hash string) error
	Delete(ctx context.Context, tx *sqlx.Tx, id string) error
	Count(ctx context.Context) (int, error)
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) List(ctx context.Context, f Filter) ([]Worker, error) {
	b := database.Builder(r.db).Select(workerColumns).From("worker")
	if f.Status != nil {
		b = b.Where(sq.Eq{"status": *f.Status})
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		b = b.Where(sq.Or{
			sq.Expr("LOWER(name) LIKE ?", like),
			sq.Expr("LOWER(username) LIKE ?", like),
		})
	}
	if f.Ascending {
		b = b.OrderBy("created_at ASC", "worker_id")
	} else {
		b = b.OrderBy("created_at DESC", "worker_id")
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build worker list: %w", err)
	}

	out := []Worker{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	return out, nil
}

func (r *repo) Get(ctx context.Context, id string) (*Worker, error) {
	return r.getOne(ctx, getWorkerSQL, id)
}

func (r *repo) GetByUsername(ctx context.Context, username string) (*Worker, error) {
	return r.getOne(ctx, getWorkerByUsernameSQL, strings.ToLower(username))
}

func (r *repo) getOne(ctx context.Context, query, arg string) (*Worker, error) {
	var w Worker
	err := r.db.GetContext(ctx, &w, r.db.Rebind(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w (%s)", ErrNotFound, arg)
	}
	if err != nil {
		return nil, fmt.Errorf("get worker: %w", err)
	}
	return &w, nil
}

func (r *repo) Create(ctx context.Context, tx *sqlx.Tx, w *Worker) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(createWorkerSQL),
		w.ID,
		w.Name,
		w.Username,
		w.PasswordHash,
		w.IsSuperAdmin,
		w.Status,
		w.CreatedAt,
	)
	if database.IsUniqueConstraintError(err) {
		return fmt.Errorf("%w: %q", ErrDuplicateUsername, w.Username)
	}
	if err != nil {
		return fmt.Errorf("create worker: %w", err)
	}
	return nil
}

func (r *repo) Update(ctx context.Context, tx *sqlx.Tx, w *Worker) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(updateWorkerSQL),
		w.Name,
		w.Username,
		w.Status,
		w.ID,
	)
	if database.IsUniqueConstraintError(err) {
		return fmt.Errorf("%w: %q", ErrDuplicateUsername, w.Username)
	}
	if err != nil {
		return fmt.Errorf("update worker: %w", err)
	}
	return requireRow(res, w.ID)
}

func (r *repo) SetPassword(ctx context.Context, tx *sqlx.Tx, id, hash string) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(setPasswordSQL), hash, id)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return requireRow(res, id)
}

func (r *repo) Delete(ctx context.Context, tx *sqlx.Tx, id string) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(deleteWorkerSQL), id)
	if err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	return requireRow(res, id)
}

func (r *repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, countWorkersSQL); err != nil {
		return 0, fmt.Errorf("count workers: %w", err)
	}
	return n, nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w (%s)", ErrNotFound, id)
	}
	return nil
}
