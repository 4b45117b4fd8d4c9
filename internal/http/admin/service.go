package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bintangmas1/app-point/internal/activitylog"
	"github.com/bintangmas1/app-point/internal/customer"
	"github.com/bintangmas1/app-point/internal/ledger"
	"github.com/bintangmas1/app-point/internal/logging"
	"github.com/bintangmas1/app-point/internal/session"
	"github.com/bintangmas1/app-point/internal/worker"
)

const (
	dashboardTop    = 5
	dashboardRecent = 10
	detailLogs      = 5
)

// Settings carries the configuration the façade needs.
type Settings struct {
	SessionTTL time.Duration
	Locale     string
}

// Service is what both the JSON API and the web UI call. It owns the
// ledger's follow-up work: after a balance change it records the note.
type Service struct {
	customers *customer.Service
	workers   *worker.Service
	logs      *activitylog.Service
	ledger    *ledger.Service
	sessions  session.Store
	ttl       time.Duration
	printer   *message.Printer
	logger    *zap.Logger
}

func NewService(
	c *customer.Service,
	w *worker.Service,
	logs *activitylog.Service,
	l *ledger.Service,
	sessions session.Store,
	settings Settings,
	logger *zap.Logger,
) *Service {
	ttl := settings.SessionTTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	tag, err := language.Parse(settings.Locale)
	if err != nil {
		tag = language.English
	}
	return &Service{
		customers: c,
		workers:   w,
		logs:      logs,
		ledger:    l,
		sessions:  sessions,
		ttl:       ttl,
		printer:   message.NewPrinter(tag),
		logger:    logger,
	}
}

// note appends an activity entry. customerID may be empty.
func (s *Service) note(ctx context.Context, sess session.Session, customerID, text string) error {
	e := &activitylog.Entry{WorkerID: sess.WorkerID, Note: text}
	if customerID != "" {
		e.CustomerID = &customerID
	}
	_, err := s.logs.Create(ctx, e)
	return err
}

// bestEffortNote records a note whose failure must not fail the request.
func (s *Service) bestEffortNote(ctx context.Context, sess session.Session, customerID, text string) {
	if err := s.note(ctx, sess, customerID, text); err != nil {
		logging.WithTrace(ctx, s.logger).Warn("activity note not saved",
			zap.String("worker", sess.Username),
			zap.String("note", text),
			zap.Error(err))
	}
}

// revokeSessions signs a deactivated or deleted worker out everywhere.
func (s *Service) revokeSessions(ctx context.Context, workerID string) error {
	n, err := s.sessions.DeleteByWorker(ctx, workerID)
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	if n > 0 {
		logging.WithTrace(ctx, s.logger).Info("worker sessions revoked",
			zap.String("worker_id", workerID),
			zap.Int("count", n))
	}
	return nil
}

// -------------------------
// Auth
// -------------------------

// Login checks credentials and opens a session for the worker.
func (s *Service) Login(ctx context.Context, username, password string) (session.Session, *worker.Worker, error) {
	w, err := s.workers.Authenticate(ctx, username, password)
	if err != nil {
		return session.Session{}, nil, err
	}
	sess, err := s.sessions.Create(ctx, session.Session{
		WorkerID:     w.ID,
		Username:     w.Username,
		Name:         w.Name,
		IsSuperAdmin: w.IsSuperAdmin,
		TTL:          s.ttl,
	})
	if err != nil {
		return session.Session{}, nil, fmt.Errorf("create session: %w", err)
	}
	return sess, w, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// -------------------------
// Customers
// -------------------------

func (s *Service) ListCustomers(ctx context.Context, f customer.Filter) (*customer.Page, error) {
	return s.customers.List(ctx, f)
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*customer.Customer, error) {
	return s.customers.Get(ctx, id)
}

// CustomerDetail returns the customer with its tier and latest notes.
func (s *Service) CustomerDetail(ctx context.Context, id string) (*CustomerDetail, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	logs, err := s.logs.ForCustomer(ctx, id, detailLogs)
	if err != nil {
		return nil, err
	}
	return &CustomerDetail{Customer: c, Tier: ledger.DeriveTier(c.Point), Logs: logs}, nil
}

func validateCustomer(req *CustomerRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" {
		return invalid("name", "Name is required")
	}
	return nil
}

func (s *Service) CreateCustomer(ctx context.Context, sess session.Session, req *CustomerRequest) (*customer.Customer, error) {
	if err := validateCustomer(req); err != nil {
		return nil, err
	}
	c := &customer.Customer{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Status:  req.Status == nil || *req.Status,
	}
	created, err := s.customers.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	s.bestEffortNote(ctx, sess, created.ID, "Added customer: "+created.Name)
	return created, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, sess session.Session, id string, req *CustomerRequest) (*customer.Customer, error) {
	if err := validateCustomer(req); err != nil {
		return nil, err
	}
	current, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Name = req.Name
	current.Address = req.Address
	current.Phone = req.Phone
	if req.Status != nil {
		current.Status = *req.Status
	}
	if err := s.customers.Update(ctx, current); err != nil {
		return nil, err
	}
	s.bestEffortNote(ctx, sess, id, "Updated customer data: "+current.Name)
	return current, nil
}

// SetCustomerStatus flips a customer between active and inactive.
func (s *Service) SetCustomerStatus(ctx context.Context, sess session.Session, id string, active bool) (*customer.Customer, error) {
	current, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Status = active
	if err := s.customers.Update(ctx, current); err != nil {
		return nil, err
	}
	state := "inactive"
	if active {
		state = "active"
	}
	s.bestEffortNote(ctx, sess, id, fmt.Sprintf("Set customer %s %s", current.Name, state))
	return current, nil
}

// DeleteCustomer removes the customer. Its notes go with it, so the
// deletion note is recorded without a customer reference.
func (s *Service) DeleteCustomer(ctx context.Context, sess session.Session, id string) error {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}
	s.bestEffortNote(ctx, sess, "", "Deleted customer: "+c.Name)
	return nil
}

func (s *Service) DeleteCustomers(ctx context.Context, sess session.Session, ids []string) error {
	if len(ids) == 0 {
		return invalid("ids", "Select at least one customer")
	}
	if err := s.customers.DeleteMany(ctx, ids); err != nil {
		return err
	}
	s.bestEffortNote(ctx, sess, "", s.printer.Sprintf("Deleted %d customers", len(ids)))
	return nil
}

// -------------------------
// Points
// -------------------------

// AddPoints credits the customer, then records the note. A failed note
// does not undo the credit; it is returned in PointsResult.LogErr.
func (s *Service) AddPoints(ctx context.Context, sess session.Session, customerID string, amount int64, note string) (*PointsResult, error) {
	c, err := s.ledger.AddPoints(ctx, customerID, amount)
	if err != nil {
		return nil, err
	}
	return s.pointsResult(ctx, sess, c, s.pointsNote("Added", amount, note)), nil
}

// RedeemPoints debits the customer, then records the note.
func (s *Service) RedeemPoints(ctx context.Context, sess session.Session, customerID string, amount int64, note string) (*PointsResult, error) {
	c, err := s.ledger.RedeemPoints(ctx, customerID, amount)
	if err != nil {
		return nil, err
	}
	return s.pointsResult(ctx, sess, c, s.pointsNote("Redeemed", amount, note)), nil
}

func (s *Service) pointsNote(verb string, amount int64, note string) string {
	text := s.printer.Sprintf("%s %d points", verb, amount)
	if note = strings.TrimSpace(note); note != "" {
		text += ": " + note
	}
	return text
}

func (s *Service) pointsResult(ctx context.Context, sess session.Session, c *customer.Customer, text string) *PointsResult {
	res := &PointsResult{Customer: c, Tier: ledger.DeriveTier(c.Point)}
	if err := s.note(ctx, sess, c.ID, text); err != nil {
		logging.WithTrace(ctx, s.logger).Warn("points changed but note not saved",
			zap.String("customer_id", c.ID),
			zap.String("note", text),
			zap.Error(err))
		res.LogErr = err
	}
	return res
}

// -------------------------
// Dashboard & logs
// -------------------------

func (s *Service) Dashboard(ctx context.Context, now time.Time) (*DashboardStats, error) {
	stats, err := s.customers.Stats(ctx, now)
	if err != nil {
		return nil, err
	}
	top, err := s.customers.Top(ctx, dashboardTop)
	if err != nil {
		return nil, err
	}
	recent, err := s.logs.Recent(ctx, dashboardRecent)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{Stats: *stats, Top: top, Recent: recent}, nil
}

func (s *Service) ListLogs(ctx context.Context, f activitylog.Filter) (*activitylog.Page, error) {
	return s.logs.List(ctx, f)
}

func (s *Service) CustomerLogs(ctx context.Context, customerID string, n int) ([]activitylog.Entry, error) {
	if _, err := s.customers.Get(ctx, customerID); err != nil {
		return nil, err
	}
	return s.logs.ForCustomer(ctx, customerID, n)
}

// -------------------------
// Workers (super admin)
// -------------------------

func requireSuperAdmin(sess session.Session) error {
	if !sess.IsSuperAdmin {
		return errForbidden
	}
	return nil
}

func (s *Service) ListWorkers(ctx context.Context, sess session.Session, f worker.Filter) ([]worker.Worker, error) {
	if err := requireSuperAdmin(sess); err != nil {
		return nil, err
	}
	return s.workers.List(ctx, f)
}

func (s *Service) WorkerDetail(ctx context.Context, sess session.Session, id string) (*WorkerDetail, error) {
	if err := requireSuperAdmin(sess); err != nil {
		return nil, err
	}
	w, err := s.workers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	logs, err := s.logs.ForWorker(ctx, id, detailLogs)
	if err != nil {
		return nil, err
	}
	return &WorkerDetail{Worker: w, Logs: logs}, nil
}

func (s *Service) CreateWorker(ctx context.Context, sess session.Session, req *WorkerRequest) (*worker.Worker, error) {
	if err := requireSuperAdmin(sess); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	switch {
	case req.Name == "":
		return nil, invalid("name", "Name is required")
	case req.Username == "":
		return nil, invalid("username", "Username is required")
	case len(req.Password) < worker.MinPasswordLength:
		return nil, invalid("password", fmt.Sprintf("Password must be at least %d characters", worker.MinPasswordLength))
	}

	w, err := s.workers.Create(ctx, req.Name, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	s.bestEffortNote(ctx, sess, "", "Added worker: "+w.Username)
	return w, nil
}

func (s *Service) UpdateWorker(ctx context.Context, sess session.Session, id string, req *WorkerRequest) (*worker.Worker, error) {
	if err := requireSuperAdmin(sess); err != nil {
		return nil, err
	}
	current, err := s.workers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		current.Name = name
	}
	if username := strings.TrimSpace(req.Username); username != "" {
		current.Username = username
	}
	if req.Status != nil {
		if id == sess.WorkerID && !*req.Status {
			return nil, invalid("status", "You cannot deactivate your own account")
		}
		current.Status = *req.Status
	}
	if req.Password != "" && len(req.Password) < worker.MinPasswordLength {
		return nil, invalid("password", fmt.Sprintf("Password must be at least %d characters", worker.MinPasswordLength))
	}
	if err := s.workers.UpdateWithPassword(ctx, current, req.Password); err != nil {
		return nil, err
	}
	if !current.Status {
		if err := s.revokeSessions(ctx, id); err != nil {
			return nil, err
		}
	}
	s.bestEffortNote(ctx, sess, "", "Updated worker: "+current.Username)
	return current, nil
}

func (s *Service) DeleteWorker(ctx context.Context, sess session.Session, id string) error {
	if err := requireSuperAdmin(sess); err != nil {
		return err
	}
	if id == sess.WorkerID {
		return invalid("id", "You cannot delete your own account")
	}
	w, err := s.workers.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.workers.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.revokeSessions(ctx, id); err != nil {
		return err
	}
	s.bestEffortNote(ctx, sess, "", "Deleted worker: "+w.Username)
	return nil
}

// -------------------------
// Profile
// -------------------------

func (s *Service) Profile(ctx context.Context, sess session.Session) (*WorkerDetail, error) {
	w, err := s.workers.Get(ctx, sess.WorkerID)
	if err != nil {
		return nil, err
	}
	logs, err := s.logs.ForWorker(ctx, sess.WorkerID, detailLogs)
	if err != nil {
		return nil, err
	}
	return &WorkerDetail{Worker: w, Logs: logs}, nil
}

func (s *Service) UpdateProfile(ctx context.Context, sess session.Session, req *ProfileRequest) (*worker.Worker, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name", "Name is required")
	}
	w, err := s.workers.Get(ctx, sess.WorkerID)
	if err != nil {
		return nil, err
	}
	w.Name = name
	if err := s.workers.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// ChangePassword requires the current password before setting a new one.
func (s *Service) ChangePassword(ctx context.Context, sess session.Session, req *PasswordRequest) error {
	if len(req.New) < worker.MinPasswordLength {
		return invalid("new", fmt.Sprintf("Password must be at least %d characters", worker.MinPasswordLength))
	}
	if _, err := s.workers.Authenticate(ctx, sess.Username, req.Current); err != nil {
		return invalid("current", "Current password is incorrect")
	}
	return s.workers.SetPassword(ctx, sess.WorkerID, req.New)
}
