package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bintangmas1/app-point/internal/backup"
	"github.com/bintangmas1/app-point/internal/logging"
	"github.com/bintangmas1/app-point/internal/middleware"
	"github.com/bintangmas1/app-point/internal/session"
)

const defaultCustomerLogs = 5

type Handler struct {
	svc     *Service
	backups *backup.Service
	logger  *zap.Logger
	now     func() time.Time
}

func NewHandler(svc *Service, backups *backup.Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, backups: backups, logger: logger, now: time.Now}
}

// fail writes the JSON error body for err. Server errors are logged with
// their detail; the client only sees the public message.
func (h *Handler) fail(c echo.Context, err error) error {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		logging.WithTrace(c.Request().Context(), h.logger).Error("api request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
	}
	return c.JSON(status, ErrorResponse{Error: PublicMessage(err)})
}

func (h *Handler) badRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Malformed request body"})
}

func current(c echo.Context) session.Session {
	sess, _ := middleware.SessionFrom(c.Request().Context())
	return sess
}

// -------------------------
// Auth
// -------------------------

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c)
	}
	sess, w, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, LoginResponse{Token: sess.ID, ExpiresAt: sess.ExpiresAt(), Worker: w})
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.svc.Logout(c.Request().Context(), current(c).ID); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -------------------------
// Customers
// -------------------------

func (h *Handler) ListCustomers(c echo.Context) error {
	out, err := h.svc.ListCustomers(c.Request().Context(), CustomerFilter(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetCustomer(c echo.Context) error {
	out, err := h.svc.CustomerDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateCustomer(c echo.Context) error {
	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c)
	}
	out, err := h.svc.CreateCustomer(c.Request().Context(), current(c), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *Handler) UpdateCustomer(c echo.Context) error {
	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c)
	}
	out, err := h.svc.UpdateCustomer(c.Request().Context(), current(c), c.Param("id"), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) DeleteCustomer(c echo.Context) error {
	if err := h.svc.DeleteCustomer(c.Request().Context(), current(c), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteCustomers(c echo.Context) error {
	var req DeleteCustomersRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c)
	}
	if err := h.svc.DeleteCustomers(c.Request().Context(), current(c), req.IDs); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CustomerLogs(c echo.Context) error {
	n := queryInt(c, "limit")
	if n <= 0 {
		n = defaultCustomerLogs
	}
	out, err := h.svc.CustomerLogs(c.Request().Context(), c.Param("id"), n)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// -------------------------
// Points
// -------------------------

func (h *Handler) AddPoints(c echo.Context) error {
	return h.points(c, h.svc.AddPoints)
}

func (h *Handler) RedeemPoints(c echo.Context) error {
	return h.points(c, h.svc.RedeemPoints)
}

type pointsFunc func(ctx context.Context, sess session.Session, id string, amount int64, note string) (*PointsResult, error)

func (h *Handler) points(c echo.Context, fn pointsFunc) error {
	var req PointsRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, invalid("points", "Points must be a whole number"))
	}
	res, err := fn(c.Request().Context(), current(c), c.Param("id"), req.Points, req.Note)
	if err != nil {
		return h.fail(c, err)
	}
	out := PointsResponse{Customer: res.Customer, Tier: res.Tier}
	if res.LogErr != nil {
		out.Warning = "Points saved, but the activity note could not be recorded"
	}
	return c.JSON(http.StatusOK, out)
}

// -------------------------
// Dashboard & logs
// -------------------------

func (h *Handler) Stats(c echo.Context) error {
	out, err := h.svc.Dashboard(c.Request().Context(), h.now())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Backup writes a gzipped SQL dump of the record store. Super admin only.
func (h *Handler) Backup(c echo.Context) error {
	res, err := h.backups.Create(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListLogs(c echo.Context) error {
	out, err := h.svc.ListLogs(c.Request().Context(), LogFilter(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// -------------------------
// Workers
// -------------------------

func (h *Handler) ListWorkers(c echo.Context) error {
	out, err := h.svc.ListWorkers(c.Request().Context(), current(c), WorkerFilter(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetWorker(c echo.Context) error {
	out, err := h.svc.WorkerDetail(c.Request().Context(), current(c), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateWorker(c echo.Context) error {
	var req WorkerRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c)
	}
	out, err := h.svc.CreateWorker(c.Request().Context(), current(c), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *Handler) UpdateWorker(c echo.Context) error {
	var req WorkerRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c)
	}
	out, err := h.svc.UpdateWorker(c.Request().Context(), current(c), c.Param("id"), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) DeleteWorker(c echo.Context) error {
	if err := h.svc.DeleteWorker(c.Request().Context(), current(c), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -------------------------
// Profile
// -------------------------

func (h *Handler) GetProfile(c echo.Context) error {
	out, err := h.svc.Profile(c.Request().Context(), current(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c)
	}
	out, err := h.svc.UpdateProfile(c.Request().Context(), current(c), &req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var req PasswordRequest
	if err := c.Bind(&req); err != nil {
		return h.badRequest(c)
	}
	if err := h.svc.ChangePassword(c.Request().Context(), current(c), &req); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
