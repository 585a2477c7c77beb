package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"folio/internal/core"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderSettingsPage(w, r)
	case http.MethodPost:
		s.handleSettingsForm(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) renderSettingsPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	msg, errMsg := flashFromQuery(r.URL.Query())

	settings, err := s.svc.Settings.Get(ctx, false)
	if err != nil {
		slog.ErrorContext(ctx, "Settings listing failed", "error", err)
		errMsg = "could not load settings"
	}

	total := settings.TotalTarget()

	data := struct {
		Title         string
		Message       string
		Error         string
		Settings      core.Settings
		TotalTarget   float64
		TargetOffBy   float64
		TargetWarning bool
	}{
		Title:         "Settings",
		Message:       msg,
		Error:         errMsg,
		Settings:      settings,
		TotalTarget:   total,
		TargetOffBy:   total - 100,
		TargetWarning: total != 0 && math.Abs(total-100) > 0.01,
	}
	s.render(w, r, "settings_page", data)
}

func (s *Server) handleSettingsForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/settings", errors.New("malformed form submission"))
		return
	}

	kind := sanitizeInput(r.PostForm.Get("type"))
	name := sanitizeInput(r.PostForm.Get("name"))

	switch action := sanitizeInput(r.PostForm.Get("form_action")); action {
	case "add":
		if err := s.svc.Settings.Add(ctx, kind, name); err != nil {
			slog.WarnContext(ctx, "Setting add rejected", "type", kind, "name", name, "error", err)
			redirectWithError(w, r, "/settings", err)
			return
		}
		redirectWithSuccess(w, r, "/settings", fmt.Sprintf("Added %s %q", kind, name))

	case "toggle":
		if err := s.svc.Settings.Toggle(ctx, kind, name); err != nil {
			slog.WarnContext(ctx, "Setting toggle rejected", "type", kind, "name", name, "error", err)
			redirectWithError(w, r, "/settings", err)
			return
		}
		redirectWithSuccess(w, r, "/settings", fmt.Sprintf("Toggled %q", name))

	case "update_target":
		target, err := strconv.ParseFloat(sanitizeInput(r.PostForm.Get("target")), 64)
		if err != nil || target < 0 || target > 100 {
			redirectWithError(w, r, "/settings", errors.New("target must be a percentage between 0 and 100"))
			return
		}
		if err := s.svc.Settings.UpdateTarget(ctx, name, target); err != nil {
			slog.WarnContext(ctx, "Target update rejected", "name", name, "error", err)
			redirectWithError(w, r, "/settings", err)
			return
		}
		redirectWithSuccess(w, r, "/settings", fmt.Sprintf("Target for %q set to %s%%", name, sanitizeInput(r.PostForm.Get("target"))))

	default:
		redirectWithError(w, r, "/settings", fmt.Errorf("unknown action %q", action))
	}
}
