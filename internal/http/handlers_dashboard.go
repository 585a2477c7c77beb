package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"folio/internal/core"
)

// handleDashboard renders the main overview page. A store failure is
// logged and the page degrades to the structurally complete zero
// dashboard instead of erroring, so a flaky backend never blanks the UI.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	q := r.URL.Query()
	year := parseYear(q)
	if year == 0 {
		// The overview is always scoped to one calendar year.
		year = time.Now().Year()
	}
	msg, errMsg := flashFromQuery(q)

	overview, err := s.svc.Dashboard.Overview(ctx, year)
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard aggregation failed, rendering empty overview",
			"year", year, "error", err)
		overview = core.EmptyOverview()
	}

	data := struct {
		Title    string
		Message  string
		Error    string
		Year     int
		Years    []int
		Months   []string
		Overview core.Overview
	}{
		Title:    "Dashboard",
		Message:  msg,
		Error:    errMsg,
		Year:     year,
		Years:    yearOptions(),
		Months:   core.MonthsShort,
		Overview: overview,
	}
	s.render(w, r, "dashboard_page", data)
}

// handleDCA renders the averaging dashboard for the selected asset, with
// the same degrade-to-zero stance as the overview.
func (s *Server) handleDCA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	q := r.URL.Query()
	asset := sanitizeInput(q.Get("asset"))
	msg, errMsg := flashFromQuery(q)

	snapshot, err := s.svc.Dashboard.DCA(ctx, asset)
	if err != nil {
		slog.ErrorContext(ctx, "DCA aggregation failed, rendering empty snapshot",
			"asset", asset, "error", err)
		snapshot = core.EmptyDCASnapshot()
	}

	data := struct {
		Title    string
		Message  string
		Error    string
		Asset    string
		Snapshot core.DCASnapshot
	}{
		Title:    "Averaging",
		Message:  msg,
		Error:    errMsg,
		Asset:    asset,
		Snapshot: snapshot,
	}
	s.render(w, r, "dca_page", data)
}
