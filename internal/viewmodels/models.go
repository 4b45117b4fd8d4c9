package viewmodels

import (
	"fmt"
	"net/url"
	"time"
)

// Customer is a view model for customer display
type Customer struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Point     int64
	Active    bool
	CreatedAt string
	Tier      Tier
}

// Tier is the display form of a loyalty tier: a bootstrap color class
// and an icon name.
type Tier struct {
	Name  string
	Color string
	Icon  string
}

// CustomerList is one page of the customers table plus the query that
// produced it, so pagination links can repeat the filters.
type CustomerList struct {
	Items    []Customer
	Total    int
	Page     int
	PageSize int
	Search   string
	Status   string
	Sort     string
}

func (l CustomerList) Pages() int {
	return pageCount(l.Total, l.PageSize)
}

// Query renders the filter as a query string for the given page.
func (l CustomerList) Query(page int) string {
	return fmt.Sprintf("?search=%s&status=%s&sort=%s&page=%d",
		url.QueryEscape(l.Search), url.QueryEscape(l.Status), url.QueryEscape(l.Sort), page)
}

// CustomerDetail is the customer page: record, tier and latest notes.
type CustomerDetail struct {
	Customer Customer
	Logs     []LogEntry
}

type Worker struct {
	ID           string
	Name         string
	Username     string
	IsSuperAdmin bool
	Active       bool
	CreatedAt    string
}

type WorkerDetail struct {
	Worker Worker
	Logs   []LogEntry
}

type LogEntry struct {
	ID           string
	CustomerID   string
	CustomerName string
	WorkerName   string
	Note         string
	CreatedAt    string
}

type LogList struct {
	Items    []LogEntry
	Total    int
	Page     int
	PageSize int
	Search   string
}

func (l LogList) Pages() int {
	return pageCount(l.Total, l.PageSize)
}

func (l LogList) Query(page int) string {
	return fmt.Sprintf("?search=%s&page=%d", url.QueryEscape(l.Search), page)
}

type Dashboard struct {
	TotalCustomers  int
	ActiveCustomers int
	TotalPoints     string
	NewThisMonth    int
	Top             []Customer
	Recent          []LogEntry
}

// Viewer is the signed-in worker as seen by the layout.
type Viewer struct {
	Name         string
	Username     string
	IsSuperAdmin bool
}

// FormatTime renders timestamps the way every table shows them.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func pageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}
