package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/bintangmas1/app-point/internal/version"
)

const ThemeCookieName = "theme"

// Context keys
type themeKey struct{}
type versionKey struct{}
type csrfKey struct{}

var validThemes = map[string]bool{"light": true, "dark": true}

// Theme reads the theme cookie into the request context ("light" by default).
func Theme() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			theme := "light"
			if cookie, err := c.Cookie(ThemeCookieName); err == nil && validThemes[cookie.Value] {
				theme = cookie.Value
			}
			c.SetRequest(c.Request().WithContext(context.WithValue(c.Request().Context(), themeKey{}, theme)))
			return next(c)
		}
	}
}

func GetTheme(ctx context.Context) string {
	if theme, ok := ctx.Value(themeKey{}).(string); ok {
		return theme
	}
	return "light"
}

// Version adds the app version to the request context.
func Version() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(context.WithValue(c.Request().Context(), versionKey{}, version.Version)))
			return next(c)
		}
	}
}

func GetVersion(ctx context.Context) string {
	if v, ok := ctx.Value(versionKey{}).(string); ok {
		return v
	}
	return version.Version
}

// CSRF exposes the token set by echo's CSRF middleware ("csrf" key) to
// templates through the request context. Register it after echo's CSRF.
func CSRF() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := c.Get("csrf").(string); ok {
				c.SetRequest(c.Request().WithContext(context.WithValue(c.Request().Context(), csrfKey{}, token)))
			}
			return next(c)
		}
	}
}

func GetCSRF(ctx context.Context) string {
	token, _ := ctx.Value(csrfKey{}).(string)
	return token
}
