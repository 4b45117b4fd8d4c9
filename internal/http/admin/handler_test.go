package admin_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bintangmas1/app-point/internal/backup"
	"github.com/bintangmas1/app-point/internal/customer"
	"github.com/bintangmas1/app-point/internal/http/admin"
	"github.com/bintangmas1/app-point/internal/middleware"
)

func newAPI(t *testing.T) (*echo.Echo, *fixture) {
	t.Helper()
	f := newFixture(t)
	e := echo.New()
	admin.RegisterRoutes(e.Group("/api"), admin.NewHandler(f.svc, backup.NewService(f.db, t.TempDir(), zap.NewNop()), zap.NewNop()),
		middleware.APIAuth(f.sessions, zap.NewNop()),
		middleware.RateLimit(middleware.NewLoginLimiter(100)),
		middleware.RequireSuperAdmin())
	return e, f
}

func call(e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAPI_Login(t *testing.T) {
	e, _ := newAPI(t)

	rec := call(e, http.MethodPost, "/api/login", "", admin.LoginRequest{Username: "admin", Password: "bad"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid username or password", decode[admin.ErrorResponse](t, rec).Error)

	rec = call(e, http.MethodPost, "/api/login", "", admin.LoginRequest{Username: "admin", Password: "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[admin.LoginResponse](t, rec)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "admin", login.Worker.Username)
	assert.NotContains(t, rec.Body.String(), "argon2id")

	rec = call(e, http.MethodGet, "/api/customers", login.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(e, http.MethodPost, "/api/logout", login.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(e, http.MethodGet, "/api/customers", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_RequiresSession(t *testing.T) {
	e, _ := newAPI(t)

	for _, path := range []string{"/api/customers", "/api/stats", "/api/logs", "/api/profile", "/api/workers"} {
		rec := call(e, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAPI_CustomersAndPoints(t *testing.T) {
	e, f := newAPI(t)
	token := f.admin.ID

	rec := call(e, http.MethodPost, "/api/customers", token, map[string]any{"name": "Putri", "phone": "0811"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	c := decode[customer.Customer](t, rec)

	rec = call(e, http.MethodPost, "/api/customers", token, map[string]any{"name": "putri"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(e, http.MethodPost, "/api/customers/"+c.ID+"/points/add", token, admin.PointsRequest{Points: 120, Note: "opening"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[admin.PointsResponse](t, rec)
	assert.Equal(t, int64(120), res.Customer.Point)
	assert.Equal(t, "Gold", res.Tier.Name)
	assert.Empty(t, res.Warning)

	rec = call(e, http.MethodPost, "/api/customers/"+c.ID+"/points/redeem", token, admin.PointsRequest{Points: 500})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "insufficient balance", decode[admin.ErrorResponse](t, rec).Error)

	rec = call(e, http.MethodPost, "/api/customers/"+c.ID+"/points/redeem", token, admin.PointsRequest{Points: 0})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = call(e, http.MethodPost, "/api/customers/"+c.ID+"/points/redeem", token, map[string]any{"points": "lots"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(e, http.MethodGet, "/api/customers/"+c.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[admin.CustomerDetail](t, rec)
	assert.Equal(t, int64(120), detail.Customer.Point)
	assert.Len(t, detail.Logs, 2)

	rec = call(e, http.MethodGet, "/api/customers?search=PUT&min_point=100", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[customer.Page](t, rec)
	assert.Equal(t, 1, page.Total)

	rec = call(e, http.MethodDelete, "/api/customers/"+c.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(e, http.MethodGet, "/api/customers/"+c.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Customer not found", decode[admin.ErrorResponse](t, rec).Error)
}

func TestAPI_PointsWarningWhenNoteFails(t *testing.T) {
	e, f := newAPI(t)
	c := f.customerWithBalance(t, "Qori", 5)

	_, err := f.db.Exec(`DROP TABLE activity_log`)
	require.NoError(t, err)

	rec := call(e, http.MethodPost, "/api/customers/"+c.ID+"/points/add", f.admin.ID, admin.PointsRequest{Points: 10})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[admin.PointsResponse](t, rec)
	assert.Equal(t, int64(15), res.Customer.Point)
	assert.NotEmpty(t, res.Warning)
}

func TestAPI_WorkersForbiddenToStaff(t *testing.T) {
	e, f := newAPI(t)

	rec := call(e, http.MethodPost, "/api/workers", f.admin.ID, admin.WorkerRequest{Name: "Rina", Username: "rina", Password: "secret123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = call(e, http.MethodPost, "/api/login", "", admin.LoginRequest{Username: "rina", Password: "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	staff := decode[admin.LoginResponse](t, rec).Token

	rec = call(e, http.MethodGet, "/api/workers", staff, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(e, http.MethodPost, "/api/backup", staff, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(e, http.MethodGet, "/api/profile", staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rina", decode[admin.WorkerDetail](t, rec).Worker.Username)

	rec = call(e, http.MethodPut, "/api/profile/password", staff, admin.PasswordRequest{Current: "secret123", New: "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_StatsAndLogs(t *testing.T) {
	e, f := newAPI(t)
	f.customerWithBalance(t, "Sari", 200)

	rec := call(e, http.MethodGet, "/api/stats", f.admin.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[admin.DashboardStats](t, rec)
	assert.Equal(t, 1, stats.TotalCustomers)
	assert.Equal(t, int64(200), stats.TotalPoints)

	rec = call(e, http.MethodGet, "/api/logs?search=sari", f.admin.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Added customer: Sari")
}

func TestAPI_Backup(t *testing.T) {
	e, f := newAPI(t)
	f.customerWithBalance(t, "Tari", 40)

	rec := call(e, http.MethodPost, "/api/backup", f.admin.ID, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[backup.Result](t, rec)
	assert.FileExists(t, res.Path)
	assert.True(t, strings.HasSuffix(res.Filename, "_pointadmin.sql.gz"))
	assert.Positive(t, res.Rows)
}
