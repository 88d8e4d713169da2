package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"payguard/internal/domain/auth"
)

func TestRateLimitUsesActorKeyBeforeIPFallback(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	actorCtx := context.WithValue(context.Background(), ctxKeyActor, auth.Actor{ID: "mgr-7", Role: auth.RoleManager})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/cycles", nil).WithContext(actorCtx)
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	// Same actor from a different address still shares the bucket.
	second := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/cycles", nil).WithContext(actorCtx)
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by actor key, got %d", secondRec.Code)
	}
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	limited := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	first := httptest.NewRequest(http.MethodPost, "/api/v1/employees/e1/changes", nil)
	first.RemoteAddr = "203.0.113.10:4444"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/employees/e1/changes", nil)
	second.RemoteAddr = "203.0.113.10:5555"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled by ip key, got %d", secondRec.Code)
	}
}

func TestRateLimitWindowReset(t *testing.T) {
	limited := RateLimit(1, 40*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := func() *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/api/v1/employees/e1/changes", nil)
		r.RemoteAddr = "192.0.2.20:1111"
		return r
	}

	rec1 := httptest.NewRecorder()
	limited.ServeHTTP(rec1, req())
	if rec1.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", rec1.Code)
	}

	rec2 := httptest.NewRecorder()
	limited.ServeHTTP(rec2, req())
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}

	time.Sleep(50 * time.Millisecond)

	rec3 := httptest.NewRecorder()
	limited.ServeHTTP(rec3, req())
	if rec3.Code != http.StatusNoContent {
		t.Fatalf("expected request after window reset to pass, got %d", rec3.Code)
	}
}

func TestClientIPKeyPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.5:1234"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.5")
	if got := clientIPKey(r); got != "203.0.113.7" {
		t.Fatalf("key = %s, want first forwarded hop", got)
	}

	r.Header.Del("X-Forwarded-For")
	if got := clientIPKey(r); got != "10.0.0.5" {
		t.Fatalf("key = %s, want remote host", got)
	}
}
