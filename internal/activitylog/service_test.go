package activitylog_test

import (
	"context"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bintangmas1/app-point/internal/activitylog"
	"github.com/bintangmas1/app-point/internal/customer"
	"github.com/bintangmas1/app-point/internal/testutil"
	"github.com/bintangmas1/app-point/internal/worker"
)

type fixture struct {
	logs      *activitylog.Service
	customers *customer.Service
	workers   *worker.Service
	cust      *customer.Customer
	staff     *worker.Worker
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.NewTestDB(t)

	f := &fixture{
		logs:      activitylog.NewService(db),
		customers: customer.NewService(db),
		workers:   worker.NewService(db),
	}

	var err error
	f.cust, err = f.customers.Create(ctx, &customer.Customer{Name: "Lina", Status: true})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	f.staff, err = f.workers.Create(ctx, "Kasir Satu", "kasir1", "secret123")
	if err != nil {
		t.Fatalf("create worker: %v", err)
	}
	return f
}

func (f *fixture) note(t *testing.T, customerID *string, text string) {
	t.Helper()
	_, err := f.logs.Create(context.Background(), &activitylog.Entry{
		CustomerID: customerID,
		WorkerID:   f.staff.ID,
		Note:       text,
	})
	if err != nil {
		t.Fatalf("create note %q: %v", text, err)
	}
}

func TestLogCreateAndList(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.note(t, &f.cust.ID, "Added 20 points: birthday")
	f.note(t, nil, "Worker kasir2 created")

	recent, err := f.logs.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].Note != "Worker kasir2 created" {
		t.Errorf("expected newest first, got %q", recent[0].Note)
	}
	if recent[0].CustomerName != nil {
		t.Errorf("expected no customer name, got %q", *recent[0].CustomerName)
	}
	if recent[1].CustomerName == nil || *recent[1].CustomerName != "Lina" {
		t.Errorf("expected joined customer name Lina, got %v", recent[1].CustomerName)
	}
	if recent[1].WorkerName != "Kasir Satu" {
		t.Errorf("expected joined worker name, got %q", recent[1].WorkerName)
	}

	forCustomer, err := f.logs.ForCustomer(ctx, f.cust.ID, 5)
	if err != nil {
		t.Fatalf("for customer: %v", err)
	}
	if len(forCustomer) != 1 {
		t.Errorf("expected 1 customer entry, got %d", len(forCustomer))
	}

	forWorker, err := f.logs.ForWorker(ctx, f.staff.ID, 5)
	if err != nil {
		t.Fatalf("for worker: %v", err)
	}
	if len(forWorker) != 2 {
		t.Errorf("expected 2 worker entries, got %d", len(forWorker))
	}
}

func TestLogCreateValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if _, err := f.logs.Create(ctx, &activitylog.Entry{WorkerID: f.staff.ID, Note: "  "}); err == nil {
		t.Error("expected error for empty note")
	}
	if _, err := f.logs.Create(ctx, &activitylog.Entry{Note: "orphan"}); err == nil {
		t.Error("expected error for missing worker")
	}
}

func TestLogListSearchAndPaging(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	for i := 1; i <= 5; i++ {
		f.note(t, &f.cust.ID, fmt.Sprintf("Redeemed %d points: voucher", i))
	}
	f.note(t, nil, "Profile updated")

	page, err := f.logs.List(ctx, activitylog.Filter{Search: "VOUCHER", Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("expected 5 matches, got %d", page.Total)
	}
	if len(page.Items) != 2 {
		t.Errorf("expected 2 items on page 2, got %d", len(page.Items))
	}

	byName, err := f.logs.List(ctx, activitylog.Filter{Search: "lina"})
	if err != nil {
		t.Fatalf("search by customer name: %v", err)
	}
	if byName.Total != 5 {
		t.Errorf("expected customer-name search to match 5, got %d", byName.Total)
	}

	asc, err := f.logs.List(ctx, activitylog.Filter{Ascending: true, Limit: 1})
	if err != nil {
		t.Fatalf("ascending: %v", err)
	}
	if len(asc.Items) != 1 || asc.Items[0].Note != "Redeemed 1 points: voucher" {
		t.Errorf("expected oldest entry first, got %+v", asc.Items)
	}
}

func TestLogCascadesWithCustomer(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.note(t, &f.cust.ID, "Added 5 points: test")
	f.note(t, nil, "unrelated")

	if err := f.customers.Delete(ctx, f.cust.ID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}

	page, err := f.logs.List(ctx, activitylog.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || page.Items[0].Note != "unrelated" {
		t.Errorf("expected only the unrelated note to survive, got %+v", page.Items)
	}
}
