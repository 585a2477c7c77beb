package security

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHeadersMiddleware(t *testing.T) {
	mw := NewHeadersMiddleware(DefaultHeadersConfig())
	handler := mw.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, value := range want {
		if got := rec.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}

	csp := rec.Header().Get("Content-Security-Policy")
	if csp == "" {
		t.Error("Content-Security-Policy header missing")
	}

	// Plain HTTP responses must not advertise HSTS.
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("Strict-Transport-Security set on non-TLS response: %q", got)
	}
}

func TestStaticAssetMiddleware(t *testing.T) {
	handler := StaticAssetMiddleware(3600)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))

	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=3600, immutable" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.7:51234",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded header from trusted proxy",
			remoteAddr: "127.0.0.1:8080",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"},
			want:       "203.0.113.9",
		},
		{
			name:       "real ip header from trusted proxy",
			remoteAddr: "10.1.2.3:9000",
			headers:    map[string]string{"X-Real-IP": "198.51.100.4"},
			want:       "198.51.100.4",
		},
		{
			name:       "forwarded header from untrusted peer is ignored",
			remoteAddr: "203.0.113.7:51234",
			headers:    map[string]string{"X-Forwarded-For": "10.0.0.99"},
			want:       "203.0.113.7",
		},
		{
			name:       "garbage forwarded value falls back to socket address",
			remoteAddr: "127.0.0.1:8080",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:       "127.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsTrustedProxy(t *testing.T) {
	trusted := []string{"127.0.0.1", "10.255.0.1", "172.16.0.1", "192.168.1.50"}
	for _, addr := range trusted {
		if !IsTrustedProxy(parseIP(t, addr)) {
			t.Errorf("IsTrustedProxy(%s) = false, want true", addr)
		}
	}
	untrusted := []string{"203.0.113.7", "8.8.8.8", "172.32.0.1"}
	for _, addr := range untrusted {
		if IsTrustedProxy(parseIP(t, addr)) {
			t.Errorf("IsTrustedProxy(%s) = true, want false", addr)
		}
	}
	if IsTrustedProxy(nil) {
		t.Error("IsTrustedProxy(nil) = true, want false")
	}
}

func parseIP(t *testing.T, s string) net.IP {
	t.Helper()
	ip := net.ParseIP(s)
	if ip == nil {
		t.Fatalf("bad test IP %q", s)
	}
	return ip
}
