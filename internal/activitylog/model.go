package activitylog

import "time"

// Entry is an informational note about something a worker did. Entries
// are never edited; they disappear only with their customer or worker.
type Entry struct {
	ID           string    `db:"log_id" json:"id"`
	CustomerID   *string   `db:"customer_id" json:"customerId,omitempty"`
	WorkerID     string    `db:"worker_id" json:"workerId"`
	Note         string    `db:"note" json:"note"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	CustomerName *string   `db:"customer_name" json:"customerName,omitempty"`
	WorkerName   string    `db:"worker_name" json:"workerName"`
}

type Filter struct {
	CustomerID string
	WorkerID   string
	Search     string
	Ascending  bool
	Limit      int
	Page       int
	PageSize   int
}

type Page struct {
	Items []Entry `json:"items"`
	Total int     `json:"total"`
}
