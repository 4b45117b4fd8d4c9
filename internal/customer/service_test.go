package customer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bintangmas1/app-point/internal/customer"
	"github.com/bintangmas1/app-point/internal/testutil"
)

func TestCustomerLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)

	svc := customer.NewService(db)

	// Create
	c := &customer.Customer{
		Name:    "Budi Santoso",
		Address: "Jl. Merdeka 10",
		Phone:   "0812-555-1234",
		Point:   999, // ignored on create
		Status:  true,
	}

	created, err := svc.Create(ctx, c)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Point != 0 {
		t.Errorf("expected new customer to start at 0 points, got %d", created.Point)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	// Get
	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Budi Santoso" {
		t.Errorf("expected name %q, got %q", "Budi Santoso", got.Name)
	}

	// Update
	got.Address = "Jl. Sudirman 5"
	got.Status = false
	if err := svc.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	updated, err := svc.Get(ctx, got.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if updated.Address != "Jl. Sudirman 5" {
		t.Errorf("expected updated address %q, got %q", "Jl. Sudirman 5", updated.Address)
	}
	if updated.Status {
		t.Error("expected customer to be inactive after update")
	}

	// Delete
	if err := svc.Delete(ctx, updated.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = svc.Get(ctx, updated.ID)
	if !errors.Is(err, customer.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted customer, got %v", err)
	}
}

func TestCustomerDuplicateNameCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)

	svc := customer.NewService(db)

	_, err := svc.Create(ctx, &customer.Customer{Name: "Siti Aminah", Status: true})
	if err != nil {
		t.Fatalf("create first customer: %v", err)
	}

	testCases := []string{"SITI AMINAH", "siti aminah", "SiTi AmInAh"}
	for _, name := range testCases {
		_, err = svc.Create(ctx, &customer.Customer{Name: name, Status: true})
		if !errors.Is(err, customer.ErrDuplicateName) {
			t.Errorf("expected ErrDuplicateName for %q, got: %v", name, err)
		}
	}
}

func TestCustomerCreateRequiresName(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	if _, err := svc.Create(context.Background(), &customer.Customer{Name: "   "}); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestCustomerUpdateAndDeleteUnknown(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	err := svc.Update(ctx, &customer.Customer{ID: "missing", Name: "Nobody"})
	if !errors.Is(err, customer.ErrNotFound) {
		t.Errorf("update unknown: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "missing"); !errors.Is(err, customer.ErrNotFound) {
		t.Errorf("delete unknown: expected ErrNotFound, got %v", err)
	}
}

func createWithPoints(t *testing.T, svc *customer.Service, name string, points int64, active bool) *customer.Customer {
	t.Helper()
	ctx := context.Background()
	c, err := svc.Create(ctx, &customer.Customer{Name: name, Status: active})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	if points != 0 {
		ok, err := svc.SwapPoints(ctx, c.ID, 0, points)
		if err != nil || !ok {
			t.Fatalf("seed points for %s: ok=%v err=%v", name, ok, err)
		}
		c.Point = points
	}
	return c
}

func TestCustomerListFilters(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	createWithPoints(t, svc, "Andi", 50, true)
	createWithPoints(t, svc, "Bima", 150, true)
	createWithPoints(t, svc, "Citra", 600, false)
	createWithPoints(t, svc, "Dewi Andini", 10, true)

	active := true
	page, err := svc.List(ctx, customer.Filter{Status: &active})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 3 {
		t.Errorf("expected 3 active customers, got total=%d items=%d", page.Total, len(page.Items))
	}

	minPoint := int64(100)
	page, err = svc.List(ctx, customer.Filter{MinPoint: &minPoint, OrderBy: "point"})
	if err != nil {
		t.Fatalf("list min point: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 customers with >= 100 points, got %d", page.Total)
	}
	if page.Items[0].Name != "Citra" {
		t.Errorf("expected highest balance first, got %q", page.Items[0].Name)
	}

	page, err = svc.List(ctx, customer.Filter{Search: "ANDI", OrderBy: "name", Ascending: true})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 matches for 'andi', got %d", page.Total)
	}
	if page.Items[0].Name != "Andi" || page.Items[1].Name != "Dewi Andini" {
		t.Errorf("unexpected search order: %q, %q", page.Items[0].Name, page.Items[1].Name)
	}

	page, err = svc.List(ctx, customer.Filter{OrderBy: "name", Ascending: true, Page: 2, PageSize: 3})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if page.Total != 4 || len(page.Items) != 1 || page.Items[0].Name != "Dewi Andini" {
		t.Errorf("unexpected page 2: total=%d items=%v", page.Total, page.Items)
	}

	page, err = svc.List(ctx, customer.Filter{OrderBy: "point; DROP TABLE customer", Limit: 2})
	if err != nil {
		t.Fatalf("list with unknown order: %v", err)
	}
	if len(page.Items) != 2 {
		t.Errorf("expected limit 2, got %d", len(page.Items))
	}
}

func TestCustomerStatsAndTop(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	for i := 1; i <= 6; i++ {
		createWithPoints(t, svc, fmt.Sprintf("Customer %d", i), int64(i*100), i != 6)
	}

	stats, err := svc.Stats(ctx, time.Now())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalCustomers != 6 {
		t.Errorf("expected 6 customers, got %d", stats.TotalCustomers)
	}
	if stats.ActiveCustomers != 5 {
		t.Errorf("expected 5 active customers, got %d", stats.ActiveCustomers)
	}
	if stats.TotalPoints != 2100 {
		t.Errorf("expected 2100 total points, got %d", stats.TotalPoints)
	}
	if stats.NewThisMonth != 6 {
		t.Errorf("expected 6 new this month, got %d", stats.NewThisMonth)
	}

	next, err := svc.Stats(ctx, time.Now().AddDate(0, 2, 0))
	if err != nil {
		t.Fatalf("stats future month: %v", err)
	}
	if next.NewThisMonth != 0 {
		t.Errorf("expected 0 new in a later month, got %d", next.NewThisMonth)
	}

	top, err := svc.Top(ctx, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 top customers, got %d", len(top))
	}
	// Customer 6 is inactive and excluded.
	if top[0].Name != "Customer 5" || top[2].Name != "Customer 3" {
		t.Errorf("unexpected top order: %q .. %q", top[0].Name, top[2].Name)
	}
}

func TestCustomerSwapPoints(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	c := createWithPoints(t, svc, "Eka", 40, true)

	ok, err := svc.SwapPoints(ctx, c.ID, 10, 99)
	if err != nil {
		t.Fatalf("swap stale: %v", err)
	}
	if ok {
		t.Fatal("expected swap with stale balance to be rejected")
	}

	ok, err = svc.SwapPoints(ctx, c.ID, 40, 70)
	if err != nil || !ok {
		t.Fatalf("swap current: ok=%v err=%v", ok, err)
	}

	got, err := svc.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Point != 70 {
		t.Errorf("expected 70 points, got %d", got.Point)
	}
}

func TestCustomerDeleteMany(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	svc := customer.NewService(db)

	a := createWithPoints(t, svc, "Fajar", 0, true)
	b := createWithPoints(t, svc, "Gita", 0, true)
	keep := createWithPoints(t, svc, "Hadi", 0, true)

	// One unknown id rolls back the whole batch.
	if err := svc.DeleteMany(ctx, []string{a.ID, "missing"}); !errors.Is(err, customer.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if ok, _ := svc.Exists(ctx, a.ID); !ok {
		t.Fatal("expected rollback to keep first customer")
	}

	if err := svc.DeleteMany(ctx, []string{a.ID, b.ID}); err != nil {
		t.Fatalf("delete many: %v", err)
	}
	for _, id := range []string{a.ID, b.ID} {
		if ok, _ := svc.Exists(ctx, id); ok {
			t.Errorf("expected %s to be deleted", id)
		}
	}
	if ok, _ := svc.Exists(ctx, keep.ID); !ok {
		t.Error("expected untouched customer to remain")
	}
}
