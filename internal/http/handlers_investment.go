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

// tradeActions is the dropdown order for transaction entry.
var tradeActions = []string{core.ActionDeposit, core.ActionWithdraw, core.ActionBuy, core.ActionSell}

func (s *Server) handleInvestments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderInvestmentsPage(w, r)
	case http.MethodPost:
		s.handleInvestmentForm(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) renderInvestmentsPage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	q := r.URL.Query()
	filter := core.Filter{
		Name:     sanitizeInput(q.Get("name")),
		Category: sanitizeInput(q.Get("category")),
		Action:   sanitizeInput(q.Get("action")),
		Year:     parseYear(q),
	}
	msg, errMsg := flashFromQuery(q)

	transactions, err := s.svc.Investments.List(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "Investment listing failed", "error", err)
		errMsg = "could not load transactions"
	}

	var categories, assetNames []string
	if settings, err := s.svc.Settings.Get(ctx, true); err != nil {
		slog.ErrorContext(ctx, "Settings lookup failed", "error", err)
	} else {
		categories = settings.ActiveCategoryNames()
		assetNames = settings.ActiveAssetNames()
	}

	var edit *core.Transaction
	if editID := sanitizeInput(q.Get("edit")); editID != "" {
		for i := range transactions {
			if transactions[i].ID == editID {
				edit = &transactions[i]
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
		FilterName     string
		FilterCategory string
		FilterAction   string
		Actions        []string
		Transactions   []core.Transaction
		Flows          core.InvestmentFlowChart
		Categories     []string
		AssetNames     []string
		Edit           *core.Transaction
		BulkRows       []int
	}{
		Title:          "Investments",
		Message:        msg,
		Error:          errMsg,
		Year:           filter.Year,
		Years:          yearOptions(),
		FilterName:     filter.Name,
		FilterCategory: filter.Category,
		FilterAction:   filter.Action,
		Actions:        tradeActions,
		Transactions:   transactions,
		Flows:          s.svc.Investments.ChartSeries(transactions),
		Categories:     categories,
		AssetNames:     assetNames,
		Edit:           edit,
		BulkRows:       []int{0, 1, 2, 3, 4},
	}
	s.render(w, r, "investments_page", data)
}

func (s *Server) handleInvestmentForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/investments", errors.New("malformed form submission"))
		return
	}

	switch action := sanitizeInput(r.PostForm.Get("form_action")); action {
	case "add":
		in := transactionInputFromForm(r.PostForm, 0)
		if _, err := s.svc.Investments.Add(ctx, in); err != nil {
			slog.WarnContext(ctx, "Transaction add rejected", "asset", in.Name, "error", err)
			redirectWithError(w, r, "/investments", err)
			return
		}
		redirectWithSuccess(w, r, "/investments", "Transaction added")

	case "add_bulk":
		inputs := bulkTransactionInputs(r.PostForm)
		if len(inputs) == 0 {
			redirectWithError(w, r, "/investments", errors.New("no rows to add"))
			return
		}
		added, err := s.svc.Investments.AddBulk(ctx, inputs)
		if err != nil {
			slog.WarnContext(ctx, "Transaction bulk add rejected", "rows", len(inputs), "error", err)
			redirectWithError(w, r, "/investments", err)
			return
		}
		redirectWithSuccess(w, r, "/investments", fmt.Sprintf("%d transactions added", len(added)))

	case "edit":
		id := sanitizeInput(r.PostForm.Get("id"))
		in := transactionInputFromForm(r.PostForm, 0)
		if _, err := s.svc.Investments.Update(ctx, id, in); err != nil {
			slog.WarnContext(ctx, "Transaction update rejected", "id", id, "error", err)
			redirectWithError(w, r, "/investments", err)
			return
		}
		redirectWithSuccess(w, r, "/investments", "Transaction updated")

	case "delete":
		id := sanitizeInput(r.PostForm.Get("id"))
		if err := s.svc.Investments.Delete(ctx, id); err != nil {
			slog.WarnContext(ctx, "Transaction delete rejected", "id", id, "error", err)
			redirectWithError(w, r, "/investments", err)
			return
		}
		redirectWithSuccess(w, r, "/investments", "Transaction deleted")

	default:
		redirectWithError(w, r, "/investments", fmt.Errorf("unknown action %q", action))
	}
}

func transactionInputFromForm(form url.Values, i int) core.TransactionInput {
	return core.TransactionInput{
		Date:     sanitizeInput(formColumn(form["date"], i)),
		Action:   sanitizeInput(formColumn(form["action"], i)),
		Name:     sanitizeInput(formColumn(form["name"], i)),
		Category: sanitizeInput(formColumn(form["category"], i)),
		Qty:      sanitizeInput(formColumn(form["qty"], i)),
		Price:    sanitizeInput(formColumn(form["price"], i)),
		Amount:   sanitizeInput(formColumn(form["amount"], i)),
		Note:     sanitizeInput(formColumn(form["note"], i)),
	}
}

func bulkTransactionInputs(form url.Values) []core.TransactionInput {
	n := len(form["date"])
	for _, field := range []string{"action", "name", "amount"} {
		if len(form[field]) > n {
			n = len(form[field])
		}
	}

	var inputs []core.TransactionInput
	for i := 0; i < n; i++ {
		in := transactionInputFromForm(form, i)
		if in.Date == "" && in.Name == "" && in.Amount == "" {
			continue
		}
		inputs = append(inputs, in)
	}
	return inputs
}
