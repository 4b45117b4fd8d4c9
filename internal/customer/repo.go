package customer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/bintangmas1/app-point/internal/database"
)

var (
	ErrNotFound      = errors.New("customer not found")
	ErrDuplicateName = errors.New("customer name already exists")
)

const DefaultPageSize = 10

var orderColumns = map[string]string{
	"created_at": "created_at",
	"name":       "LOWER(name)",
	"point":      "point",
}

type Repository interface {
	List(ctx context.Context, f Filter) (*Page, error)
	Get(ctx context.Context, id string) (*Customer, error)
	Create(ctx context.Context, tx *sqlx.Tx, c *Customer) error
	Update(ctx context.Context, tx *sqlx.Tx, c *Customer) error
	Delete(ctx context.Context, tx *sqlx.Tx, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context, since time.Time) (*Stats, error)
	Top(ctx context.Context, n int) ([]Customer, error)
	SwapPoints(ctx context.Context, id string, expected, next int64) (bool, error)
}

type repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repository {
	return &repo{db: db}
}

// applyFilter adds the WHERE clauses shared by the row and count queries.
func applyFilter(b sq.SelectBuilder, f Filter) sq.SelectBuilder {
	if f.Status != nil {
		b = b.Where(sq.Eq{"status": *f.Status})
	}
	if f.MinPoint != nil {
		b = b.Where(sq.GtOrEq{"point": *f.MinPoint})
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		b = b.Where(sq.Or{
			sq.Expr("LOWER(name) LIKE ?", like),
			sq.Expr("LOWER(address) LIKE ?", like),
			sq.Expr("LOWER(phone) LIKE ?", like),
		})
	}
	return b
}

func (r *repo) List(ctx context.Context, f Filter) (*Page, error) {
	qb := database.Builder(r.db)

	countQuery, countArgs, err := applyFilter(qb.Select("COUNT(*)").From("customer"), f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build customer count: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	col, ok := orderColumns[f.OrderBy]
	if !ok {
		col = orderColumns["created_at"]
	}
	dir := "DESC"
	if f.Ascending {
		dir = "ASC"
	}

	b := applyFilter(qb.Select(customerColumns).From("customer"), f).
		OrderBy(col+" "+dir, "customer_id")

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
		return nil, fmt.Errorf("build customer list: %w", err)
	}

	out := []Customer{}
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return &Page{Items: out, Total: total}, nil
}

func (r *repo) Get(ctx context.Context, id string) (*Customer, error) {
	var c Customer
	err := r.db.GetContext(ctx, &c, r.db.Rebind(getCustomerSQL), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w (%s)", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (r *repo) Create(ctx context.Context, tx *sqlx.Tx, c *Customer) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(createCustomerSQL),
		c.ID,
		c.Name,
		c.Address,
		c.Phone,
		c.Point,
		c.Status,
		c.CreatedAt,
	)
	if database.IsUniqueConstraintError(err) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, c.Name)
	}
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (r *repo) Update(ctx context.Context, tx *sqlx.Tx, c *Customer) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(updateCustomerSQL),
		c.Name,
		c.Address,
		c.Phone,
		c.Status,
		c.ID,
	)
	if database.IsUniqueConstraintError(err) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, c.Name)
	}
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return requireRow(res, c.ID)
}

func (r *repo) Delete(ctx context.Context, tx *sqlx.Tx, id string) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(deleteCustomerSQL), id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return requireRow(res, id)
}

func (r *repo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, r.db.Rebind(customerExistsSQL), id)
	if err != nil {
		return false, fmt.Errorf("customer exists: %w", err)
	}
	return exists, nil
}

func (r *repo) Stats(ctx context.Context, since time.Time) (*Stats, error) {
	var s Stats
	if err := r.db.GetContext(ctx, &s, r.db.Rebind(statsSQL), since); err != nil {
		return nil, fmt.Errorf("customer stats: %w", err)
	}
	return &s, nil
}

func (r *repo) Top(ctx context.Context, n int) ([]Customer, error) {
	out := []Customer{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(topCustomersSQL), true, n); err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	return out, nil
}

func (r *repo) SwapPoints(ctx context.Context, id string, expected, next int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(swapPointsSQL), next, id, expected)
	if err != nil {
		return false, fmt.Errorf("swap points: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("swap points: %w", err)
	}
	return n == 1, nil
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
