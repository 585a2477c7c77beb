package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateRequestID(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()

	if !strings.HasPrefix(a, "req_") {
		t.Errorf("request ID %q missing req_ prefix", a)
	}
	if a == b {
		t.Errorf("two generated IDs collided: %q", a)
	}
}

func TestGetRequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetRequestID(r.Context()); got != "" {
		t.Errorf("GetRequestID on bare context = %q, want empty", got)
	}
}

func TestMiddlewarePropagatesRequestID(t *testing.T) {
	var seen string
	mw := NewMiddleware(nil)
	handler := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.HasPrefix(seen, "req_") {
		t.Errorf("handler saw request ID %q, want req_ prefix", seen)
	}
}

func TestMiddlewareLogsLifecycle(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(previous)

	mw := NewMiddleware(func(*http.Request) string { return "203.0.113.7" })
	handler := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing?x=1", nil))

	out := buf.String()
	if !strings.Contains(out, "HTTP request started") {
		t.Errorf("start line missing from log output: %q", out)
	}
	if !strings.Contains(out, "HTTP request completed") {
		t.Errorf("completion line missing from log output: %q", out)
	}
	if !strings.Contains(out, "status_code=404") {
		t.Errorf("completion line missing status: %q", out)
	}
	if !strings.Contains(out, "client_ip=203.0.113.7") {
		t.Errorf("log output missing client ip: %q", out)
	}
	// 4xx completions are warnings.
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("404 completion not logged at warn level: %q", out)
	}
}
