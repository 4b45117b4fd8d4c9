package activitylog

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
	now  func() time.Time
}

func NewService(db *sqlx.DB) *Service {
	return &Service{
		repo: New(db),
		now:  time.Now,
	}
}

// Create appends a note. CustomerID may be nil for notes that are not
// about a customer (worker changes, logins).
func (s *Service) Create(ctx context.Context, e *Entry) (*Entry, error) {
	e.Note = strings.TrimSpace(e.Note)
	if e.WorkerID == "" {
		return nil, errors.New("log entry needs a worker")
	}
	if e.Note == "" {
		return nil, errors.New("log entry needs a note")
	}
	e.ID = uuid.NewString()
	e.CreatedAt = s.now().UTC()

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, f Filter) (*Page, error) {
	return s.repo.List(ctx, f)
}

// Recent returns the newest n entries across all customers and workers.
func (s *Service) Recent(ctx context.Context, n int) ([]Entry, error) {
	return s.items(ctx, Filter{Limit: n})
}

func (s *Service) ForCustomer(ctx context.Context, customerID string, n int) ([]Entry, error) {
	return s.items(ctx, Filter{CustomerID: customerID, Limit: n})
}

func (s *Service) ForWorker(ctx context.Context, workerID string, n int) ([]Entry, error) {
	return s.items(ctx, Filter{WorkerID: workerID, Limit: n})
}

func (s *Service) items(ctx context.Context, f Filter) ([]Entry, error) {
	p, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return p.Items, nil
}
