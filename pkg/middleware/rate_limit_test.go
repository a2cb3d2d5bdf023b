package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abhash31/ai-booking-assistant/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
}

func TestRateLimiterAllowSlidingWindow(t *testing.T) {
	limiter := NewRateLimiter(2, 50*time.Millisecond, testLogger())
	defer limiter.Stop()

	if !limiter.Allow("10.0.0.1") || !limiter.Allow("10.0.0.1") {
		t.Fatal("expected first two requests to pass")
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("expected third request inside the window to be rejected")
	}

	// A different client has its own budget.
	if !limiter.Allow("10.0.0.2") {
		t.Error("expected independent budget per client")
	}

	// The window slides: old timestamps expire and the budget returns.
	time.Sleep(60 * time.Millisecond)
	if !limiter.Allow("10.0.0.1") {
		t.Error("expected budget back after the window passed")
	}
}

func TestRateLimitRejectsOverBudgetWith429(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute, testLogger())
	defer limiter.Stop()

	handler := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil)
	req.RemoteAddr = "10.0.0.1:54321"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for second request, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "RATE_LIMITED") {
		t.Errorf("expected RATE_LIMITED error body, got %s", body)
	}
}

func TestRateLimitKeysOnForwardedAddress(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute, testLogger())
	defer limiter.Stop()

	handler := RateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Two callers behind the same proxy must not share a budget.
	for _, forwarded := range []string{"203.0.113.7, 10.0.0.1", "203.0.113.8, 10.0.0.1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil)
		req.RemoteAddr = "10.0.0.1:54321"
		req.Header.Set("X-Forwarded-For", forwarded)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected distinct forwarded clients to pass, got %d for %q", rec.Code, forwarded)
		}
	}
}
