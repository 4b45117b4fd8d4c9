package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bintangmas1/app-point/internal/logging"
	"github.com/bintangmas1/app-point/internal/session"
)

const SessionCookieName = "pointadmin_session"

type sessionKey struct{}

// WithSession returns a copy of ctx carrying the signed-in worker's session.
func WithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom retrieves the session placed by WebAuth or APIAuth.
func SessionFrom(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(session.Session)
	return s, ok
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// lookup resolves a session id, logging store failures other than a
// missing or expired session.
func lookup(c echo.Context, store session.Store, logger *zap.Logger, id string) (session.Session, bool) {
	if id == "" {
		return session.Session{}, false
	}
	ctx := c.Request().Context()
	sess, err := store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			logging.WithTrace(ctx, logger).Error("session lookup failed",
				zap.String("session", logging.MaskToken(id)),
				zap.Error(err))
		}
		return session.Session{}, false
	}
	return sess, true
}

func attach(c echo.Context, sess session.Session) {
	c.SetRequest(c.Request().WithContext(WithSession(c.Request().Context(), sess)))
}

// WebAuth validates the session cookie for WEB UI endpoints and redirects
// to the login page when it is missing or expired.
func WebAuth(store session.Store, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()

			// Public routes: login page and static assets
			if path == "/web/login" ||
				strings.HasPrefix(path, "/web/static/") {
				return next(c)
			}

			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				if sess, ok := lookup(c, store, logger, cookie.Value); ok {
					attach(c, sess)
					return next(c)
				}
			}

			// htmx would swap the login page into the target; make it navigate instead
			if c.Request().Header.Get("HX-Request") == "true" {
				c.Response().Header().Set("HX-Redirect", "/web/login")
				return c.NoContent(http.StatusOK)
			}
			return c.Redirect(http.StatusFound, "/web/login")
		}
	}
}

// APIAuth validates a bearer token (or the web session cookie) for the
// JSON API. Returns 401 if authentication fails.
func APIAuth(store session.Store, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := BearerToken(c.Request())
			if id == "" {
				if cookie, err := c.Cookie(SessionCookieName); err == nil {
					id = cookie.Value
				}
			}
			if id == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing session token")
			}

			sess, ok := lookup(c, store, logger, id)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired session")
			}

			attach(c, sess)
			return next(c)
		}
	}
}

// RequireSuperAdmin rejects workers without the super admin flag.
// It must run after WebAuth or APIAuth.
func RequireSuperAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := SessionFrom(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not signed in")
			}
			if !sess.IsSuperAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Super admin access required")
			}
			return next(c)
		}
	}
}
