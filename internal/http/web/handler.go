package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bintangmas1/app-point/internal/activitylog"
	"github.com/bintangmas1/app-point/internal/customer"
	"github.com/bintangmas1/app-point/internal/http/admin"
	"github.com/bintangmas1/app-point/internal/ledger"
	"github.com/bintangmas1/app-point/internal/logging"
	"github.com/bintangmas1/app-point/internal/middleware"
	"github.com/bintangmas1/app-point/internal/session"
	vm "github.com/bintangmas1/app-point/internal/viewmodels"
	"github.com/bintangmas1/app-point/internal/worker"
	"github.com/bintangmas1/app-point/templates/components"
	"github.com/bintangmas1/app-point/templates/pages"
)

const logNoteWarning = "Points saved, but the activity note could not be recorded"

// Options configures the web handler
type Options struct {
	CookieSecure bool
	Locale       string
}

// Handler handles web UI requests
type Handler struct {
	svc          *admin.Service
	logger       *zap.Logger
	printer      *message.Printer
	cookieSecure bool
	now          func() time.Time
}

// NewHandler creates a new web handler
func NewHandler(svc *admin.Service, logger *zap.Logger, opts Options) *Handler {
	tag, err := language.Parse(opts.Locale)
	if err != nil {
		tag = language.English
	}
	return &Handler{
		svc:          svc,
		logger:       logger,
		printer:      message.NewPrinter(tag),
		cookieSecure: opts.CookieSecure,
		now:          time.Now,
	}
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

type toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// setToast sends a toast (type success, warning or error) through HX-Trigger.
func setToast(c echo.Context, message, kind string, closeModal bool) {
	event := map[string]any{"showToast": toast{Message: message, Type: kind}}
	if closeModal {
		event["closeModal"] = true
	}
	data, _ := json.Marshal(event)
	c.Response().Header().Set("HX-Trigger", string(data))
}

// toastError answers an htmx request with an error toast and no swap.
func (h *Handler) toastError(c echo.Context, err error) error {
	h.logIfUnexpected(c, err)
	setToast(c, admin.PublicMessage(err), "error", false)
	c.Response().Header().Set("HX-Reswap", "none")
	return c.NoContent(http.StatusOK)
}

// httpError is the full-page counterpart of toastError.
func (h *Handler) httpError(c echo.Context, err error) error {
	h.logIfUnexpected(c, err)
	return echo.NewHTTPError(admin.StatusCode(err), admin.PublicMessage(err))
}

func (h *Handler) logIfUnexpected(c echo.Context, err error) {
	if admin.StatusCode(err) >= http.StatusInternalServerError {
		logging.WithTrace(c.Request().Context(), h.logger).Error("web request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
	}
}

// retargetModal swaps the response into the open modal instead of the
// form's normal target.
func retargetModal(c echo.Context) {
	c.Response().Header().Set("HX-Retarget", "#modal-content")
	c.Response().Header().Set("HX-Reswap", "innerHTML")
}

// fieldError splits a validation error into field and message. Other
// errors become a form-level message.
func fieldError(err error) (string, string) {
	var ve *admin.ValidationError
	if errors.As(err, &ve) {
		return ve.Field, ve.Message
	}
	return "", admin.PublicMessage(err)
}

func current(c echo.Context) session.Session {
	sess, _ := middleware.SessionFrom(c.Request().Context())
	return sess
}

func formBool(c echo.Context, name string) *bool {
	v, err := strconv.ParseBool(c.FormValue(name))
	if err != nil {
		return nil
	}
	return &v
}

// --------------------------
// Authentication
// --------------------------

// LoginPage renders the login form
func (h *Handler) LoginPage(c echo.Context) error {
	return pages.Login("", "").Render(c.Request().Context(), c.Response())
}

// Login handles login form submission
func (h *Handler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	username := strings.TrimSpace(c.FormValue("username"))

	sess, _, err := h.svc.Login(ctx, username, c.FormValue("password"))
	if err != nil {
		h.logIfUnexpected(c, err)
		return pages.Login(admin.PublicMessage(err), username).Render(ctx, c.Response())
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		Expires:  sess.ExpiresAt(),
	})

	logging.WithTrace(ctx, h.logger).Info("worker signed in", zap.String("username", sess.Username))
	return c.Redirect(http.StatusFound, "/web/")
}

// Logout clears the session cookie and deletes the server-side session
func (h *Handler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.svc.Logout(c.Request().Context(), cookie.Value); err != nil {
			h.logger.Warn("session delete failed", zap.Error(err))
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})

	return c.Redirect(http.StatusFound, "/web/login")
}

// --------------------------
// Dashboard
// --------------------------

// Index renders the dashboard page
func (h *Handler) Index(c echo.Context) error {
	ctx := c.Request().Context()
	stats, err := h.svc.Dashboard(ctx, h.now())
	if err != nil {
		return h.httpError(c, err)
	}
	return pages.Dashboard(FromSession(current(c)), FromDashboard(stats, h.printer)).Render(ctx, c.Response())
}

// --------------------------
// Customers
// --------------------------

func (h *Handler) customerList(c echo.Context) (vm.CustomerList, error) {
	f := admin.CustomerFilter(c)
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = customer.DefaultPageSize
	}
	page, err := h.svc.ListCustomers(c.Request().Context(), f)
	if err != nil {
		return vm.CustomerList{}, err
	}
	return vm.CustomerList{
		Items:    FromDomainCustomers(page.Items),
		Total:    page.Total,
		Page:     f.Page,
		PageSize: f.PageSize,
		Search:   f.Search,
		Status:   c.QueryParam("status"),
		Sort:     f.OrderBy,
	}, nil
}

// renderCustomersTable answers a mutation with the refreshed first page.
func (h *Handler) renderCustomersTable(c echo.Context) error {
	list, err := h.customerList(c)
	if err != nil {
		return h.toastError(c, err)
	}
	return components.CustomersTable(list).Render(c.Request().Context(), c.Response())
}

func (h *Handler) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	list, err := h.customerList(c)
	if err != nil {
		return h.httpError(c, err)
	}
	if isHTMX(c) {
		return components.CustomersTable(list).Render(ctx, c.Response())
	}
	return pages.Customers(FromSession(current(c)), list).Render(ctx, c.Response())
}

func (h *Handler) NewCustomerForm(c echo.Context) error {
	return components.CustomerForm(nil, "", "").Render(c.Request().Context(), c.Response())
}

func (h *Handler) EditCustomerForm(c echo.Context) error {
	ctx := c.Request().Context()
	cust, err := h.svc.GetCustomer(ctx, c.Param("id"))
	if err != nil {
		return h.toastError(c, err)
	}
	view := FromDomainCustomer(*cust)
	return components.CustomerForm(&view, "", "").Render(ctx, c.Response())
}

func customerRequest(c echo.Context) *admin.CustomerRequest {
	return &admin.CustomerRequest{
		Name:    c.FormValue("name"),
		Address: c.FormValue("address"),
		Phone:   c.FormValue("phone"),
		Status:  formBool(c, "status"),
	}
}

func (h *Handler) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	req := customerRequest(c)

	created, err := h.svc.CreateCustomer(ctx, current(c), req)
	if err != nil {
		view := &vm.Customer{Name: req.Name, Address: req.Address, Phone: req.Phone, Active: req.Status == nil || *req.Status}
		return h.renderCustomerFormWithError(c, view, err)
	}

	setToast(c, "Customer "+created.Name+" created", "success", true)
	return h.renderCustomersTable(c)
}

func (h *Handler) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	req := customerRequest(c)
	id := c.Param("id")

	updated, err := h.svc.UpdateCustomer(ctx, current(c), id, req)
	if err != nil {
		view := &vm.Customer{ID: id, Name: req.Name, Address: req.Address, Phone: req.Phone, Active: req.Status == nil || *req.Status}
		return h.renderCustomerFormWithError(c, view, err)
	}

	setToast(c, "Customer "+updated.Name+" updated", "success", true)
	return h.renderCustomersTable(c)
}

func (h *Handler) renderCustomerFormWithError(c echo.Context, view *vm.Customer, err error) error {
	if errors.Is(err, customer.ErrNotFound) {
		return h.toastError(c, err)
	}
	h.logIfUnexpected(c, err)
	field, msg := fieldError(err)
	if errors.Is(err, customer.ErrDuplicateName) {
		field = "name"
	}
	retargetModal(c)
	return components.CustomerForm(view, field, msg).Render(c.Request().Context(), c.Response())
}

func (h *Handler) DeleteCustomer(c echo.Context) error {
	if err := h.svc.DeleteCustomer(c.Request().Context(), current(c), c.Param("id")); err != nil {
		return h.toastError(c, err)
	}
	setToast(c, "Customer deleted", "success", false)
	return h.renderCustomersTable(c)
}

// DeleteCustomers removes every checked customer in one transaction.
func (h *Handler) DeleteCustomers(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return h.toastError(c, err)
	}
	ids := params["ids"]
	if err := h.svc.DeleteCustomers(c.Request().Context(), current(c), ids); err != nil {
		return h.toastError(c, err)
	}
	setToast(c, h.printer.Sprintf("%d customers deleted", len(ids)), "success", false)
	return h.renderCustomersTable(c)
}

func (h *Handler) CustomerDetail(c echo.Context) error {
	ctx := c.Request().Context()
	d, err := h.svc.CustomerDetail(ctx, c.Param("id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return pages.CustomerDetail(FromSession(current(c)), FromCustomerDetail(d)).Render(ctx, c.Response())
}

// --------------------------
// Points
// --------------------------

func (h *Handler) AddPoints(c echo.Context) error {
	return h.changePoints(c, "Added", h.svc.AddPoints)
}

func (h *Handler) RedeemPoints(c echo.Context) error {
	return h.changePoints(c, "Redeemed", h.svc.RedeemPoints)
}

type pointsFunc = func(ctx context.Context, sess session.Session, id string, amount int64, note string) (*admin.PointsResult, error)

// changePoints runs an add or redeem and swaps in the refreshed panel.
// A note that failed to save turns the success toast into a warning.
func (h *Handler) changePoints(c echo.Context, verb string, fn pointsFunc) error {
	ctx := c.Request().Context()
	amount, err := strconv.ParseInt(strings.TrimSpace(c.FormValue("points")), 10, 64)
	if err != nil {
		return h.toastError(c, ledger.ErrInvalidAmount)
	}

	res, err := fn(ctx, current(c), c.Param("id"), amount, c.FormValue("note"))
	if err != nil {
		return h.toastError(c, err)
	}

	detail := vm.CustomerDetail{Customer: FromDomainCustomer(*res.Customer)}
	if logs, err := h.svc.CustomerLogs(ctx, res.Customer.ID, 5); err == nil {
		detail.Logs = FromDomainEntries(logs)
	}

	if res.LogErr != nil {
		setToast(c, logNoteWarning, "warning", false)
	} else {
		setToast(c, h.printer.Sprintf("%s %d points. Balance: %d", verb, amount, res.Customer.Point), "success", false)
	}
	return components.CustomerPanel(detail).Render(ctx, c.Response())
}

// --------------------------
// Activity
// --------------------------

func (h *Handler) ListLogs(c echo.Context) error {
	ctx := c.Request().Context()
	f := admin.LogFilter(c)
	if f.Page < 1 {
		f.Page = 1
	}
	page, err := h.svc.ListLogs(ctx, f)
	if err != nil {
		return h.httpError(c, err)
	}
	size := f.PageSize
	if size <= 0 {
		size = activitylog.DefaultPageSize
	}
	list := vm.LogList{
		Items:    FromDomainEntries(page.Items),
		Total:    page.Total,
		Page:     f.Page,
		PageSize: size,
		Search:   f.Search,
	}
	if isHTMX(c) {
		return components.LogsList(list).Render(ctx, c.Response())
	}
	return pages.Logs(FromSession(current(c)), list).Render(ctx, c.Response())
}

// --------------------------
// Workers
// --------------------------

func (h *Handler) workers(c echo.Context) ([]vm.Worker, error) {
	ws, err := h.svc.ListWorkers(c.Request().Context(), current(c), worker.Filter{Ascending: true})
	if err != nil {
		return nil, err
	}
	return FromDomainWorkers(ws), nil
}

func (h *Handler) ListWorkers(c echo.Context) error {
	ctx := c.Request().Context()
	ws, err := h.workers(c)
	if err != nil {
		return h.httpError(c, err)
	}
	sess := current(c)
	return pages.Workers(FromSession(sess), sess.WorkerID, ws).Render(ctx, c.Response())
}

func (h *Handler) renderWorkersTable(c echo.Context) error {
	ws, err := h.workers(c)
	if err != nil {
		return h.toastError(c, err)
	}
	return components.WorkersTable(ws, current(c).WorkerID).Render(c.Request().Context(), c.Response())
}

func (h *Handler) WorkerDetail(c echo.Context) error {
	ctx := c.Request().Context()
	d, err := h.svc.WorkerDetail(ctx, current(c), c.Param("id"))
	if err != nil {
		return h.httpError(c, err)
	}
	return pages.WorkerDetail(FromSession(current(c)), FromWorkerDetail(d)).Render(ctx, c.Response())
}

func (h *Handler) NewWorkerForm(c echo.Context) error {
	return components.WorkerForm(nil, "", "").Render(c.Request().Context(), c.Response())
}

func (h *Handler) EditWorkerForm(c echo.Context) error {
	ctx := c.Request().Context()
	d, err := h.svc.WorkerDetail(ctx, current(c), c.Param("id"))
	if err != nil {
		return h.toastError(c, err)
	}
	view := FromDomainWorker(*d.Worker)
	return components.WorkerForm(&view, "", "").Render(ctx, c.Response())
}

func workerRequest(c echo.Context) *admin.WorkerRequest {
	return &admin.WorkerRequest{
		Name:     c.FormValue("name"),
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
		Status:   formBool(c, "status"),
	}
}

func (h *Handler) CreateWorker(c echo.Context) error {
	req := workerRequest(c)
	created, err := h.svc.CreateWorker(c.Request().Context(), current(c), req)
	if err != nil {
		view := &vm.Worker{Name: req.Name, Username: req.Username, Active: true}
		return h.renderWorkerFormWithError(c, view, err)
	}
	setToast(c, "Worker "+created.Username+" created", "success", true)
	return h.renderWorkersTable(c)
}

func (h *Handler) UpdateWorker(c echo.Context) error {
	req := workerRequest(c)
	id := c.Param("id")
	updated, err := h.svc.UpdateWorker(c.Request().Context(), current(c), id, req)
	if err != nil {
		view := &vm.Worker{ID: id, Name: req.Name, Username: req.Username, Active: req.Status == nil || *req.Status}
		return h.renderWorkerFormWithError(c, view, err)
	}
	setToast(c, "Worker "+updated.Username+" updated", "success", true)
	return h.renderWorkersTable(c)
}

func (h *Handler) renderWorkerFormWithError(c echo.Context, view *vm.Worker, err error) error {
	if errors.Is(err, worker.ErrNotFound) {
		return h.toastError(c, err)
	}
	h.logIfUnexpected(c, err)
	field, msg := fieldError(err)
	if errors.Is(err, worker.ErrDuplicateUsername) {
		field = "username"
	}
	retargetModal(c)
	return components.WorkerForm(view, field, msg).Render(c.Request().Context(), c.Response())
}

func (h *Handler) DeleteWorker(c echo.Context) error {
	if err := h.svc.DeleteWorker(c.Request().Context(), current(c), c.Param("id")); err != nil {
		return h.toastError(c, err)
	}
	setToast(c, "Worker deleted", "success", false)
	return h.renderWorkersTable(c)
}

// --------------------------
// Profile
// --------------------------

func (h *Handler) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	d, err := h.svc.Profile(ctx, current(c))
	if err != nil {
		return h.httpError(c, err)
	}
	return pages.Profile(FromSession(current(c)), FromWorkerDetail(d)).Render(ctx, c.Response())
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	if _, err := h.svc.UpdateProfile(c.Request().Context(), current(c), &admin.ProfileRequest{Name: c.FormValue("name")}); err != nil {
		return h.toastError(c, err)
	}
	setToast(c, "Profile updated", "success", false)
	return c.NoContent(http.StatusOK)
}

func (h *Handler) ChangePassword(c echo.Context) error {
	req := &admin.PasswordRequest{Current: c.FormValue("current"), New: c.FormValue("new")}
	if err := h.svc.ChangePassword(c.Request().Context(), current(c), req); err != nil {
		return h.toastError(c, err)
	}
	setToast(c, "Password changed", "success", false)
	return c.NoContent(http.StatusOK)
}
