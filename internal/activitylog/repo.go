package activitylog

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/bintangmas1/app-point/internal/database"
)

const DefaultPageSize = 50

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, f Filter) (*Page, error)
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, e *Entry) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(createEntrySQL),
		e.ID,
		e.CustomerID,
		e.WorkerID,
		e.Note,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create log entry: %w", err)
	}
	return nil
}

func applyFilter(b sq.SelectBuilder, f Filter) sq.SelectBuilder {
	b = b.From(entryFrom).LeftJoin(joinCustomer).Join(joinWorker)
	if f.CustomerID != "" {
		b = b.Where(sq.Eq{"l.customer_id": f.CustomerID})
	}
	if f.WorkerID != "" {
		b = b.Where(sq.Eq{"l.worker_id": f.WorkerID})
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		b = b.Where(sq.Or{
			sq.Expr("LOWER(l.note) LIKE ?", like),
			sq.Expr("LOWER(c.name) LIKE ?", like),
			sq.Expr("LOWER(w.name) LIKE ?", like),
		})
	}
	return b
}

func (r *repo) List(ctx context.Context, f Filter) (*Page, error) {
	qb := database.Builder(r.db)

	countQuery, countArgs, err := applyFilter(qb.Select("COUNT(*)"), f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build log count: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, fmt.Errorf("count log entries: %w", err)
	}

	dir := "DESC"
	if f.Ascending {
		dir = "ASC"
	}
	b := applyFilter(qb.Select(entryColumns...), f).
		OrderBy("l.created_at "+dir, "l.log_id "+dir)

	switch {
	case f.Page > 0:
		size := f.PageSize
		if size <= 0 {
			size = DefaultPageSize
		}
		b = b.Limit(uint64(size)).Offset(uint64((f.Page - 1) * size))
	case f.Limit > 0:
		b = b.Limit(uint64(f.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build log list: %w", err)
	}

	out := []Entry{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	return &Page{Items: out, Total: total}, nil
}
