package worker

import "time"

type Worker struct {
	ID           string    `db:"worker_id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsSuperAdmin bool      `db:"is_super_admin" json:"isSuperAdmin"`
	Status       bool      `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type Filter struct {
	Status    *bool
	Search    string
	Ascending bool
	Limit     int
}
