package middleware_test

import (
	"net/http"
	"testing"

	"github.com/bintangmas1/app-point/internal/middleware"
)

func TestLoginLimiter(t *testing.T) {
	l := middleware.NewLoginLimiter(3)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("fourth attempt within a minute should be rejected")
	}
	if !l.Allow("10.0.0.2") {
		t.Error("other clients have their own bucket")
	}
}

func TestLoginLimiterDisabled(t *testing.T) {
	l := middleware.NewLoginLimiter(0)
	for i := 0; i < 100; i++ {
		if !l.Allow("x") {
			t.Fatal("limiter with zero rate must allow everything")
		}
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	mw := middleware.RateLimit(middleware.NewLoginLimiter(1))

	c, rec := newContext(http.MethodPost, "/api/login")
	if err := mw(okHandler)(c); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodPost, "/api/login")
	expectHTTPError(t, mw(okHandler)(c), http.StatusTooManyRequests)
}
