package admin

import (
	"time"

	"github.com/bintangmas1/app-point/internal/activitylog"
	"github.com/bintangmas1/app-point/internal/customer"
	"github.com/bintangmas1/app-point/internal/ledger"
	"github.com/bintangmas1/app-point/internal/worker"
)

// -------------------------
// Auth DTOs
// -------------------------

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Worker    *worker.Worker `json:"worker"`
}

// -------------------------
// Customer DTOs
// -------------------------

type CustomerRequest struct {
	Name    string `json:"name" form:"name"`
	Address string `json:"address" form:"address"`
	Phone   string `json:"phone" form:"phone"`
	Status  *bool  `json:"status" form:"status"`
}

type DeleteCustomersRequest struct {
	IDs []string `json:"ids" form:"ids"`
}

type PointsRequest struct {
	Points int64  `json:"points" form:"points"`
	Note   string `json:"note" form:"note"`
}

// PointsResult is the outcome of a successful add or redeem. LogErr is
// set when the balance changed but the activity note could not be saved.
type PointsResult struct {
	Customer *customer.Customer
	Tier     ledger.Tier
	LogErr   error
}

type PointsResponse struct {
	Customer *customer.Customer `json:"customer"`
	Tier     ledger.Tier        `json:"tier"`
	Warning  string             `json:"warning,omitempty"`
}

type CustomerDetail struct {
	Customer *customer.Customer  `json:"customer"`
	Tier     ledger.Tier         `json:"tier"`
	Logs     []activitylog.Entry `json:"logs"`
}

type DashboardStats struct {
	customer.Stats
	Top    []customer.Customer `json:"top"`
	Recent []activitylog.Entry `json:"recent"`
}

// -------------------------
// Worker DTOs
// -------------------------

type WorkerRequest struct {
	Name     string `json:"name" form:"name"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Status   *bool  `json:"status" form:"status"`
}

type WorkerDetail struct {
	Worker *worker.Worker      `json:"worker"`
	Logs   []activitylog.Entry `json:"logs"`
}

type ProfileRequest struct {
	Name string `json:"name" form:"name"`
}

type PasswordRequest struct {
	Current string `json:"current" form:"current"`
	New     string `json:"new" form:"new"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
