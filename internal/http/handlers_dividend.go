package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"folio/internal/core"
)

func (s *Server) handleDividends(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderDividendsPage(w, r)
	case http.MethodPost:
		s.handleDividendForm(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) renderDividendsPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	q := r.URL.Query()
	name := sanitizeInput(q.Get("name"))
	year := parseYear(q)
	msg, errMsg := flashFromQuery(q)

	dividends, err := s.svc.Dividends.List(ctx, name, year)
	if err != nil {
		slog.ErrorContext(ctx, "Dividend listing failed", "error", err)
		errMsg = "could not load dividends"
	}

	// Year totals ignore the name filter so the headline stays the
	// year's income, not the filtered subset's.
	total, err := s.svc.Dividends.TotalDividends(ctx, year)
	if err != nil {
		slog.ErrorContext(ctx, "Dividend total lookup failed", "year", year, "error", err)
	}
	monthlyAvg, err := s.svc.Dividends.MonthlyAverage(ctx, year)
	if err != nil {
		slog.ErrorContext(ctx, "Dividend average lookup failed", "year", year, "error", err)
	}

	var categories, assetNames []string
	if settings, err := s.svc.Settings.Get(ctx, true); err != nil {
		slog.ErrorContext(ctx, "Settings lookup failed", "error", err)
	} else {
		categories = settings.ActiveCategoryNames()
		assetNames = settings.ActiveAssetNames()
	}

	data := struct {
		Title          string
		Message        string
		Error          string
		Year           int
		Years          []int
		Months         []string
		FilterName     string
		Dividends      []core.Dividend
		Monthly        core.MonthlySeries
		Total          float64
		MonthlyAverage float64
		Categories     []string
		AssetNames     []string
	}{
		Title:          "Dividends",
		Message:        msg,
		Error:          errMsg,
		Year:           year,
		Years:          yearOptions(),
		Months:         core.MonthsShort,
		FilterName:     name,
		Dividends:      dividends,
		Monthly:        s.svc.Dividends.MonthlyIncomeSeries(dividends),
		Total:          total,
		MonthlyAverage: monthlyAvg,
		Categories:     categories,
		AssetNames:     assetNames,
	}
	s.render(w, r, "dividends_page", data)
}

func (s *Server) handleDividendForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/dividends", errors.New("malformed form submission"))
		return
	}

	switch action := sanitizeInput(r.PostForm.Get("form_action")); action {
	case "add":
		in := core.DividendInput{
			Date:       sanitizeInput(r.PostForm.Get("date")),
			Name:       sanitizeInput(r.PostForm.Get("name")),
			Category:   sanitizeInput(r.PostForm.Get("category")),
			Amount:     sanitizeInput(r.PostForm.Get("amount")),
			Reinvested: sanitizeInput(r.PostForm.Get("reinvested")),
			Note:       sanitizeInput(r.PostForm.Get("note")),
		}
		if _, err := s.svc.Dividends.Add(ctx, in); err != nil {
			slog.WarnContext(ctx, "Dividend add rejected", "name", in.Name, "error", err)
			redirectWithError(w, r, "/dividends", err)
			return
		}
		redirectWithSuccess(w, r, "/dividends", "Dividend recorded")

	default:
		redirectWithError(w, r, "/dividends", fmt.Errorf("unknown action %q", action))
	}
}

// handleDividendAnalysis renders income bucketed by year or month,
// optionally narrowed to one asset.
func (s *Server) handleDividendAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	q := r.URL.Query()
	mode := core.ParseAnalysisMode(q.Get("mode"))
	name := sanitizeInput(q.Get("name"))
	msg, errMsg := flashFromQuery(q)

	series, err := s.svc.Dividends.Analysis(ctx, mode, name)
	if err != nil {
		slog.ErrorContext(ctx, "Dividend analysis failed", "mode", mode, "error", err)
		errMsg = "could not load dividend analysis"
		series = core.Series{Labels: []string{}, Values: []float64{}}
	}

	var assetNames []string
	if settings, err := s.svc.Settings.Get(ctx, true); err != nil {
		slog.ErrorContext(ctx, "Settings lookup failed", "error", err)
	} else {
		assetNames = settings.ActiveAssetNames()
	}

	data := struct {
		Title      string
		Message    string
		Error      string
		Mode       string
		FilterName string
		Series     core.Series
		AssetNames []string
	}{
		Title:      "Dividend analysis",
		Message:    msg,
		Error:      errMsg,
		Mode:       string(mode),
		FilterName: name,
		Series:     series,
		AssetNames: assetNames,
	}
	s.render(w, r, "dividend_analysis_page", data)
}
