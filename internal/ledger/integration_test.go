package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bintangmas1/app-point/internal/customer"
	"github.com/bintangmas1/app-point/internal/ledger"
	"github.com/bintangmas1/app-point/internal/testutil"
)

func newCustomerWithBalance(t *testing.T, svc *customer.Service, balance int64) *customer.Customer {
	t.Helper()
	ctx := context.Background()
	c, err := svc.Create(ctx, &customer.Customer{Name: "Ledger Test", Status: true})
	require.NoError(t, err)
	ok, err := svc.SwapPoints(ctx, c.ID, 0, balance)
	require.NoError(t, err)
	require.True(t, ok)
	return c
}

func TestLedgerAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	customers := customer.NewService(db)
	svc := ledger.NewService(customers, zap.NewNop())

	c := newCustomerWithBalance(t, customers, 10)

	_, err := svc.RedeemPoints(ctx, c.ID, 15)
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	stored, err := customers.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10), stored.Point)

	got, err := svc.AddPoints(ctx, c.ID, 490)
	require.NoError(t, err)
	require.Equal(t, int64(500), got.Point)
	require.Equal(t, ledger.Platinum, ledger.DeriveTier(got.Point))

	_, err = svc.AddPoints(ctx, "00000000-0000-0000-0000-000000000000", 1)
	require.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestConcurrentRedeemsAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	customers := customer.NewService(db)
	svc := ledger.NewService(customers, zap.NewNop(), ledger.WithMaxRetries(100))

	c := newCustomerWithBalance(t, customers, 100)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RedeemPoints(ctx, c.ID, 10)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := customers.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, int64(20), stored.Point)
}

func TestConcurrentOverdraftAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	customers := customer.NewService(db)
	svc := ledger.NewService(customers, zap.NewNop(), ledger.WithMaxRetries(100))

	c := newCustomerWithBalance(t, customers, 100)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, amount := range []int64{60, 70} {
		wg.Add(1)
		go func(i int, amount int64) {
			defer wg.Done()
			_, results[i] = svc.RedeemPoints(ctx, c.ID, amount)
		}(i, amount)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ledger.ErrInsufficientBalance):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, insufficient)

	stored, err := customers.Get(ctx, c.ID)
	require.NoError(t, err)
	require.Contains(t, []int64{40, 30}, stored.Point)
}
