package customer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Service struct {
	repo Repository
	db   *sqlx.DB
	now  func() time.Time
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		db:   db,
		repo: New(db),
		now:  time.Now,
	}
}

func (s *Service) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Service) List(ctx context.Context, f Filter) (*Page, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a new customer with a fresh id. Point and CreatedAt are
// set by the store, not the caller.
func (s *Service) Create(ctx context.Context, c *Customer) (*Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, errors.New("customer name is required")
	}
	c.ID = uuid.NewString()
	c.Point = 0
	c.CreatedAt = s.now().UTC()

	err := s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Create(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, c.ID)
}

// Update changes the descriptive fields. Balances only move through the
// ledger.
func (s *Service) Update(ctx context.Context, c *Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return errors.New("customer name is required")
	}
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Update(ctx, tx, c)
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.repo.Delete(ctx, tx, id)
	})
}

// DeleteMany removes all listed customers or none of them.
func (s *Service) DeleteMany(ctx context.Context, ids []string) error {
	return s.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, id := range ids {
			if err := s.repo.Delete(ctx, tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// Stats counts customers created since the first day of now's month (UTC).
func (s *Service) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return s.repo.Stats(ctx, monthStart)
}

func (s *Service) Top(ctx context.Context, n int) ([]Customer, error) {
	if n <= 0 {
		n = 5
	}
	return s.repo.Top(ctx, n)
}

// SwapPoints sets the balance to next only if it still equals expected.
// It reports false when another writer changed the balance first.
func (s *Service) SwapPoints(ctx context.Context, id string, expected, next int64) (bool, error) {
	return s.repo.SwapPoints(ctx, id, expected, next)
}
