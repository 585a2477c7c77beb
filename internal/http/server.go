// Package http serves the portfolio web UI: server-rendered pages over
// the application services, PNG chart endpoints, and health probes.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"folio/internal/core"
	"folio/internal/middleware/ratelimit"
	"folio/internal/middleware/security"
	"folio/internal/middleware/trace"
	"folio/internal/services"
	"folio/internal/sheets"
	"folio/web"
)

// Services bundles the application services the handlers depend on.
type Services struct {
	Assets      *services.AssetService
	Investments *services.InvestmentService
	Dividends   *services.DividendService
	Settings    *services.SettingsService
	Dashboard   *services.DashboardService
}

// Options tunes server behavior beyond the defaults.
type Options struct {
	// RateLimitRPM throttles mutating requests per client IP.
	RateLimitRPM int
	// ProbeSheet is the worksheet the readiness endpoint reads to prove
	// the row store is reachable.
	ProbeSheet string
}

// Server wires the HTTP stack: routes, middleware, templates.
type Server struct {
	http.Server

	svc        Services
	store      sheets.RowStore
	templates  *template.Template
	limiter    *ratelimit.Limiter
	headers    *security.HeadersMiddleware
	tracer     *trace.Middleware
	probeSheet string
}

// NewServer builds the full handler chain. Timeouts on the embedded
// http.Server are left for the caller to set.
func NewServer(addr string, svc Services, store sheets.RowStore, opts Options) (*Server, error) {
	templates, err := template.New("folio").Funcs(templateFuncs()).ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	rpm := opts.RateLimitRPM
	if rpm <= 0 {
		rpm = 60
	}
	probeSheet := opts.ProbeSheet
	if probeSheet == "" {
		probeSheet = "Settings"
	}

	s := &Server{
		svc:        svc,
		store:      store,
		templates:  templates,
		limiter:    ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: rpm}),
		headers:    security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		tracer:     trace.NewMiddleware(security.ClientIP),
		probeSheet: probeSheet,
	}

	mux := http.NewServeMux()
	s.routes(mux, staticFS)
	s.Server = http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s, nil
}

func (s *Server) routes(mux *http.ServeMux, staticFS fs.FS) {
	static := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))

	// Probes stay outside the middleware chain so orchestration traffic
	// does not flood the request log or the limiter.
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.Handle("/", s.wrap(s.handleDashboard))
	mux.Handle("/assets", s.wrap(s.handleAssets))
	mux.Handle("/investments", s.wrap(s.handleInvestments))
	mux.Handle("/dividends", s.wrap(s.handleDividends))
	mux.Handle("/dividends/analysis", s.wrap(s.handleDividendAnalysis))
	mux.Handle("/dca", s.wrap(s.handleDCA))
	mux.Handle("/settings", s.wrap(s.handleSettings))

	mux.Handle("/charts/allocation.png", s.wrap(s.handleAllocationChart))
	mux.Handle("/charts/summary.png", s.wrap(s.handleSummaryChart))
	mux.Handle("/charts/dca.png", s.wrap(s.handleDCAChart))
}

// wrap applies the standard middleware chain: tracing outermost so even
// throttled requests get logged, then response headers, then the POST
// rate limit.
func (s *Server) wrap(h http.HandlerFunc) http.Handler {
	limited := s.limiter.Middleware(security.ClientIP, nil, http.MethodPost)
	return s.tracer.Middleware(s.headers.Middleware(limited(h)))
}

// Shutdown stops the limiter bookkeeping and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleReady reads one worksheet to prove the backing store answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if _, err := s.store.ReadGrid(ctx, s.probeSheet); err != nil {
		slog.WarnContext(ctx, "Readiness probe failed", "sheet", s.probeSheet, "error", err)
		http.Error(w, "store unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

// render executes a named page template. Failures after the first byte
// cannot change the status code anymore, so they are only logged.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "template", name, "error", err)
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string { return core.FormatAmount(v, true, 2) },
		"num":   func(v float64) string { return core.FormatAmount(v, false, 2) },
		"units": func(v float64) string { return core.FormatAmount(v, false, 4) },
		"pct":   func(v float64) string { return core.FormatAmount(v, false, 2) + "%" },
	}
}
