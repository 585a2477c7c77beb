package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"folio/internal/core"
)

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderAssetsPage(w, r)
	case http.MethodPost:
		s.handleAssetForm(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) renderAssetsPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	q := r.URL.Query()
	filter := core.Filter{
		Name:     sanitizeInput(q.Get("name")),
		Category: sanitizeInput(q.Get("category")),
		Year:     parseYear(q),
	}
	msg, errMsg := flashFromQuery(q)

	snapshots, err := s.svc.Assets.List(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "Asset listing failed", "error", err)
		errMsg = "could not load asset snapshots"
	}

	latestTotal, err := s.svc.Assets.LatestTotalValue(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Latest portfolio value lookup failed", "error", err)
	}

	var categories, assetNames []string
	if settings, err := s.svc.Settings.Get(ctx, true); err != nil {
		slog.ErrorContext(ctx, "Settings lookup failed", "error", err)
	} else {
		categories = settings.ActiveCategoryNames()
		assetNames = settings.ActiveAssetNames()
	}

	// ?edit=<id> pre-fills the edit form with a row from the listing.
	var edit *core.AssetSnapshot
	if editID := sanitizeInput(q.Get("edit")); editID != "" {
		for i := range snapshots {
			if snapshots[i].ID == editID {
				edit = &snapshots[i]
				break
			}
		}
	}

	data := struct {
		Title          string
		Message        string
		Error          string
		Year           int
		Years          []int
		Months         []string
		FilterName     string
		FilterCategory string
		Snapshots      []core.AssetSnapshot
		Lines          []core.AssetLine
		LatestTotal    float64
		Categories     []string
		AssetNames     []string
		Edit           *core.AssetSnapshot
		BulkRows       []int
	}{
		Title:          "Assets",
		Message:        msg,
		Error:          errMsg,
		Year:           filter.Year,
		Years:          yearOptions(),
		Months:         core.MonthsShort,
		FilterName:     filter.Name,
		FilterCategory: filter.Category,
		Snapshots:      snapshots,
		Lines:          s.svc.Assets.ChartSeries(snapshots),
		LatestTotal:    latestTotal,
		Categories:     categories,
		AssetNames:     assetNames,
		Edit:           edit,
		BulkRows:       []int{0, 1, 2, 3, 4},
	}
	s.render(w, r, "assets_page", data)
}

func (s *Server) handleAssetForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/assets", errors.New("malformed form submission"))
		return
	}

	switch action := sanitizeInput(r.PostForm.Get("form_action")); action {
	case "add":
		in := assetInputFromForm(r.PostForm, 0)
		if _, err := s.svc.Assets.Add(ctx, in); err != nil {
			slog.WarnContext(ctx, "Asset add rejected", "name", in.Name, "error", err)
			redirectWithError(w, r, "/assets", err)
			return
		}
		redirectWithSuccess(w, r, "/assets", "Asset snapshot added")

	case "add_bulk":
		inputs := bulkAssetInputs(r.PostForm)
		if len(inputs) == 0 {
			redirectWithError(w, r, "/assets", errors.New("no rows to add"))
			return
		}
		added, err := s.svc.Assets.AddBulk(ctx, inputs)
		if err != nil {
			slog.WarnContext(ctx, "Asset bulk add rejected", "rows", len(inputs), "error", err)
			redirectWithError(w, r, "/assets", err)
			return
		}
		redirectWithSuccess(w, r, "/assets", fmt.Sprintf("%d asset snapshots added", len(added)))

	case "edit":
		id := sanitizeInput(r.PostForm.Get("id"))
		in := assetInputFromForm(r.PostForm, 0)
		if _, err := s.svc.Assets.Update(ctx, id, in); err != nil {
			slog.WarnContext(ctx, "Asset update rejected", "id", id, "error", err)
			redirectWithError(w, r, "/assets", err)
			return
		}
		redirectWithSuccess(w, r, "/assets", "Asset snapshot updated")

	case "delete":
		id := sanitizeInput(r.PostForm.Get("id"))
		if err := s.svc.Assets.Delete(ctx, id); err != nil {
			slog.WarnContext(ctx, "Asset delete rejected", "id", id, "error", err)
			redirectWithError(w, r, "/assets", err)
			return
		}
		redirectWithSuccess(w, r, "/assets", "Asset snapshot deleted")

	default:
		redirectWithError(w, r, "/assets", fmt.Errorf("unknown action %q", action))
	}
}

// assetInputFromForm reads one row of asset fields. The single-row forms
// use index 0; the bulk form repeats the field names.
func assetInputFromForm(form url.Values, i int) core.AssetInput {
	return core.AssetInput{
		Date:     sanitizeInput(formColumn(form["date"], i)),
		Name:     sanitizeInput(formColumn(form["name"], i)),
		Category: sanitizeInput(formColumn(form["category"], i)),
		Amount:   sanitizeInput(formColumn(form["amount"], i)),
	}
}

// bulkAssetInputs collects the repeated rows of the bulk form, skipping
// rows left entirely blank.
func bulkAssetInputs(form url.Values) []core.AssetInput {
	n := len(form["date"])
	for _, field := range []string{"name", "category", "amount"} {
		if len(form[field]) > n {
			n = len(form[field])
		}
	}

	var inputs []core.AssetInput
	for i := 0; i < n; i++ {
		in := assetInputFromForm(form, i)
		if in.Date == "" && in.Name == "" && in.Amount == "" {
			continue
		}
		inputs = append(inputs, in)
	}
	return inputs
}
