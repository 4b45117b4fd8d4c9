// Package ledger moves customer point balances.
//
// Every write is a compare-and-swap against the balance that was read, so
// two requests racing on the same customer can never both spend the same
// points. A lost race is retried a bounded number of times.
package ledger

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bintangmas1/app-point/internal/customer"
)

const DefaultMaxRetries = 5

//go:generate mockgen -destination=mock_store_test.go -package=ledger_test . Store

// Store is the slice of the customer store the ledger needs.
type Store interface {
	Get(ctx context.Context, id string) (*customer.Customer, error)
	SwapPoints(ctx context.Context, id string, expected, next int64) (bool, error)
}

type Service struct {
	store      Store
	logger     *zap.Logger
	tracer     trace.Tracer
	maxRetries int
	backoff    func(attempt int) time.Duration
}

type Option func(*Service)

// WithMaxRetries bounds how often a lost write is retried.
func WithMaxRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithBackoff replaces the wait between retries.
func WithBackoff(fn func(attempt int) time.Duration) Option {
	return func(s *Service) { s.backoff = fn }
}

func NewService(store Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:      store,
		logger:     logger,
		tracer:     otel.Tracer("github.com/bintangmas1/app-point/internal/ledger"),
		maxRetries: DefaultMaxRetries,
		backoff:    jitter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// jitter waits a few milliseconds, growing with the attempt number.
func jitter(attempt int) time.Duration {
	base := time.Duration(attempt+1) * 2 * time.Millisecond
	return base + rand.N(base)
}

// AddPoints credits amount to the customer and returns the updated record.
func (s *Service) AddPoints(ctx context.Context, customerID string, amount int64) (*customer.Customer, error) {
	return s.apply(ctx, "add_points", customerID, amount, func(balance int64) (int64, error) {
		if balance > math.MaxInt64-amount {
			return 0, ErrInvalidAmount
		}
		return balance + amount, nil
	})
}

// RedeemPoints debits amount from the customer. Nothing is written when
// the balance is smaller than amount.
func (s *Service) RedeemPoints(ctx context.Context, customerID string, amount int64) (*customer.Customer, error) {
	return s.apply(ctx, "redeem_points", customerID, amount, func(balance int64) (int64, error) {
		if balance < amount {
			return 0, ErrInsufficientBalance
		}
		return balance - amount, nil
	})
}

func (s *Service) apply(ctx context.Context, op, customerID string, amount int64, next func(int64) (int64, error)) (_ *customer.Customer, err error) {
	ctx, span := s.tracer.Start(ctx, "ledger."+op, trace.WithAttributes(
		attribute.String("customer.id", customerID),
		attribute.Int64("points.amount", amount),
	))
	defer func() {
		operationsTotal.WithLabelValues(op, result(err)).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, Message(err))
		} else {
			pointsTotal.WithLabelValues(op).Add(float64(amount))
		}
		span.End()
	}()

	if amount < 1 {
		return nil, ErrInvalidAmount
	}

	for attempt := 0; ; attempt++ {
		c, err := s.store.Get(ctx, customerID)
		if errors.Is(err, customer.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, &PersistenceError{Op: "read", Err: err}
		}

		balance, err := next(c.Point)
		if err != nil {
			return nil, err
		}

		ok, err := s.store.SwapPoints(ctx, customerID, c.Point, balance)
		if err != nil {
			return nil, &PersistenceError{Op: "write", Err: err}
		}
		if ok {
			span.SetAttributes(attribute.Int64("points.balance", balance), attribute.Int("ledger.attempts", attempt+1))
			updated := *c
			updated.Point = balance
			return &updated, nil
		}

		casConflicts.Inc()
		if attempt >= s.maxRetries {
			s.logger.Warn("points write kept losing to concurrent updates",
				zap.String("op", op),
				zap.String("customer_id", customerID),
				zap.Int("attempts", attempt+1))
			return nil, ErrConflict
		}

		select {
		case <-ctx.Done():
			return nil, &PersistenceError{Op: "write", Err: ctx.Err()}
		case <-time.After(s.backoff(attempt)):
		}
	}
}
