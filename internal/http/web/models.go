package web

import (
	"golang.org/x/text/message"

	"github.com/bintangmas1/app-point/internal/activitylog"
	"github.com/bintangmas1/app-point/internal/customer"
	"github.com/bintangmas1/app-point/internal/http/admin"
	"github.com/bintangmas1/app-point/internal/ledger"
	"github.com/bintangmas1/app-point/internal/session"
	vm "github.com/bintangmas1/app-point/internal/viewmodels"
	"github.com/bintangmas1/app-point/internal/worker"
)

// FromTier converts a ledger tier to its display form
func FromTier(t ledger.Tier) vm.Tier {
	return vm.Tier{Name: t.Name, Color: t.Color, Icon: t.Icon}
}

// FromDomainCustomer converts a domain customer to view model
func FromDomainCustomer(c customer.Customer) vm.Customer {
	return vm.Customer{
		ID:        c.ID,
		Name:      c.Name,
		Address:   c.Address,
		Phone:     c.Phone,
		Point:     c.Point,
		Active:    c.Status,
		CreatedAt: vm.FormatTime(c.CreatedAt),
		Tier:      FromTier(ledger.DeriveTier(c.Point)),
	}
}

// FromDomainCustomers converts a slice of domain customers to view models
func FromDomainCustomers(customers []customer.Customer) []vm.Customer {
	result := make([]vm.Customer, len(customers))
	for i, c := range customers {
		result[i] = FromDomainCustomer(c)
	}
	return result
}

func FromDomainWorker(w worker.Worker) vm.Worker {
	return vm.Worker{
		ID:           w.ID,
		Name:         w.Name,
		Username:     w.Username,
		IsSuperAdmin: w.IsSuperAdmin,
		Active:       w.Status,
		CreatedAt:    vm.FormatTime(w.CreatedAt),
	}
}

func FromDomainWorkers(workers []worker.Worker) []vm.Worker {
	result := make([]vm.Worker, len(workers))
	for i, w := range workers {
		result[i] = FromDomainWorker(w)
	}
	return result
}

// FromDomainEntry converts an activity entry. Notes about deleted
// customers keep no customer link.
func FromDomainEntry(e activitylog.Entry) vm.LogEntry {
	out := vm.LogEntry{
		ID:         e.ID,
		WorkerName: e.WorkerName,
		Note:       e.Note,
		CreatedAt:  vm.FormatTime(e.CreatedAt),
	}
	if e.CustomerID != nil {
		out.CustomerID = *e.CustomerID
	}
	if e.CustomerName != nil {
		out.CustomerName = *e.CustomerName
	}
	return out
}

func FromDomainEntries(entries []activitylog.Entry) []vm.LogEntry {
	result := make([]vm.LogEntry, len(entries))
	for i, e := range entries {
		result[i] = FromDomainEntry(e)
	}
	return result
}

func FromCustomerDetail(d *admin.CustomerDetail) vm.CustomerDetail {
	return vm.CustomerDetail{
		Customer: FromDomainCustomer(*d.Customer),
		Logs:     FromDomainEntries(d.Logs),
	}
}

func FromWorkerDetail(d *admin.WorkerDetail) vm.WorkerDetail {
	return vm.WorkerDetail{
		Worker: FromDomainWorker(*d.Worker),
		Logs:   FromDomainEntries(d.Logs),
	}
}

// FromDashboard converts dashboard stats; the points total is grouped
// for the configured locale.
func FromDashboard(d *admin.DashboardStats, p *message.Printer) vm.Dashboard {
	return vm.Dashboard{
		TotalCustomers:  d.TotalCustomers,
		ActiveCustomers: d.ActiveCustomers,
		TotalPoints:     p.Sprintf("%d", d.TotalPoints),
		NewThisMonth:    d.NewThisMonth,
		Top:             FromDomainCustomers(d.Top),
		Recent:          FromDomainEntries(d.Recent),
	}
}

// FromSession is the layout's view of the signed-in worker
func FromSession(s session.Session) *vm.Viewer {
	return &vm.Viewer{Name: s.Name, Username: s.Username, IsSuperAdmin: s.IsSuperAdmin}
}
