package customer

import "time"

type Customer struct {
	ID        string    `db:"customer_id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	Point     int64     `db:"point" json:"point"`
	Status    bool      `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Filter narrows a customer listing. Zero values mean "no restriction".
type Filter struct {
	Status    *bool
	MinPoint  *int64
	Search    string
	OrderBy   string
	Ascending bool
	Limit     int
	Page      int
	PageSize  int
}

// Page is one slice of a filtered listing plus the unpaged total.
type Page struct {
	Items []Customer `json:"items"`
	Total int        `json:"total"`
}

type Stats struct {
	TotalCustomers  int   `db:"total_customers" json:"totalCustomers"`
	ActiveCustomers int   `db:"active_customers" json:"activeCustomers"`
	TotalPoints     int64 `db:"total_points" json:"totalPoints"`
	NewThisMonth    int   `db:"new_this_month" json:"newThisMonth"`
}
