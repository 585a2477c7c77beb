package core

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Row is one worksheet row as returned by the record store, keyed by
// header cell. Keys may carry stray spacing and headers drift between
// synonyms on hand-edited sheets; cleaning that up is the loader's job,
// not the store's. The raw shape never crosses the loader boundary.
type Row map[string]any

// Canonical header rows, used to seed fresh worksheets. The loaders
// accept the synonyms a hand-edited sheet accumulates; these are the
// names new worksheets start from. The settings row is positional, so
// its duplicate "Active" header is harmless.
var (
	AssetHeaders       = []string{"ID", "Date", "Amount", "Description", "Category"}
	TransactionHeaders = []string{"ID", "Date", "Action", "Asset", "Category", "Quantity", "Unit Price", "Total Amount", "Note"}
	DividendHeaders    = []string{"ID", "Date", "Asset Name", "Category", "Dividend Amount", "Reinvested", "Note"}
	SettingsHeaders    = []string{"Asset Category", "Active", "Target %", "Asset", "Active"}
)

// field returns the first non-empty value among the given header names,
// matching each against the row's whitespace-trimmed keys.
func (r Row) field(names ...string) any {
	for _, want := range names {
		for k, v := range r {
			if strings.TrimSpace(k) != want || v == nil {
				continue
			}
			if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
				continue
			}
			return v
		}
	}
	return nil
}

// text is field rendered as a trimmed string, for identity-ish columns.
func (r Row) text(names ...string) string {
	v := r.field(names...)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Filter narrows a load to matching records. Zero values match
// everything.
type Filter struct {
	Name     string // case-insensitive substring match on the asset name
	Category string // exact match
	Action   string // exact match, transactions only
	Year     int    // parsed date must fall in this year; undated rows drop out
}

func (f Filter) matchName(name string) bool {
	return f.Name == "" || strings.Contains(strings.ToLower(name), strings.ToLower(f.Name))
}

func (f Filter) matchCategory(category string) bool {
	return f.Category == "" || f.Category == category
}

func (f Filter) matchAction(action string) bool {
	return f.Action == "" || f.Action == action
}

// matchWhen applies the year filter. It fails closed: when a year is
// requested, a row whose date did not parse is excluded rather than
// guessed at.
func (f Filter) matchWhen(when time.Time) bool {
	if f.Year == 0 {
		return true
	}
	return !when.IsZero() && when.Year() == f.Year
}

// sortNewestFirst orders records descending by parsed date. The zero time
// is the minimum, so rows without a parseable date land last; equal dates
// keep their worksheet order.
func sortNewestFirst[T any](recs []T, when func(T) time.Time) {
	slices.SortStableFunc(recs, func(a, b T) int {
		return when(b).Compare(when(a))
	})
}

// LoadAssetSnapshots turns raw worksheet rows into normalized snapshots,
// applies the filter and sorts newest first. Rows whose date does not
// parse keep their raw date text and sort last.
func LoadAssetSnapshots(rows []Row, f Filter) []AssetSnapshot {
	out := make([]AssetSnapshot, 0, len(rows))
	for _, r := range rows {
		name := r.text("Description", "Asset", "Asset Name")
		category := r.text("Category")
		if !f.matchName(name) || !f.matchCategory(category) {
			continue
		}
		raw := r.text("Date", "date")
		when, ok := ParseDate(raw)
		if !f.matchWhen(when) {
			continue
		}
		date := raw
		if ok {
			date = FormatDate(when)
		}
		out = append(out, AssetSnapshot{
			ID:       r.text("ID"),
			Date:     date,
			Name:     name,
			Category: category,
			Amount:   ParseAmount(r.field("Amount")),
			when:     when,
		})
	}
	sortNewestFirst(out, func(s AssetSnapshot) time.Time { return s.when })
	return out
}

// LoadTransactions is LoadAssetSnapshots for the investment worksheet,
// additionally honoring the action filter. Quantity and price cells are
// carried as written; the DCA engine does its own strict coercion.
func LoadTransactions(rows []Row, f Filter) []Transaction {
	out := make([]Transaction, 0, len(rows))
	for _, r := range rows {
		name := r.text("Asset", "Description")
		category := r.text("Category")
		action := r.text("Action")
		if !f.matchName(name) || !f.matchCategory(category) || !f.matchAction(action) {
			continue
		}
		raw := r.text("Date", "date")
		when, ok := ParseDate(raw)
		if !f.matchWhen(when) {
			continue
		}
		date := raw
		if ok {
			date = FormatDate(when)
		}
		out = append(out, Transaction{
			ID:       r.text("ID"),
			Date:     date,
			Action:   action,
			Name:     name,
			Category: category,
			Qty:      r.text("Quantity"),
			Price:    r.text("Unit Price"),
			Amount:   ParseAmount(r.field("Total Amount")),
			Note:     r.text("Note"),
			when:     when,
		})
	}
	sortNewestFirst(out, func(t Transaction) time.Time { return t.when })
	return out
}

// LoadDividends is the dividend-worksheet loader; dividends filter by
// name and year only.
func LoadDividends(rows []Row, f Filter) []Dividend {
	out := make([]Dividend, 0, len(rows))
	for _, r := range rows {
		name := r.text("Asset Name", "Asset")
		if !f.matchName(name) {
			continue
		}
		raw := r.text("Date", "date")
		when, ok := ParseDate(raw)
		if !f.matchWhen(when) {
			continue
		}
		date := raw
		if ok {
			date = FormatDate(when)
		}
		reinvested := r.text("Reinvested")
		if reinvested == "" {
			reinvested = "No"
		}
		out = append(out, Dividend{
			ID:         r.text("ID"),
			Date:       date,
			Name:       name,
			Category:   r.text("Category"),
			Amount:     ParseAmount(r.field("Dividend Amount", "Amount")),
			Reinvested: reinvested,
			Note:       r.text("Note"),
			when:       when,
		})
	}
	sortNewestFirst(out, func(d Dividend) time.Time { return d.when })
	return out
}
