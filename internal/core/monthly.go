package core

import "time"

// MonthlySeries holds one value per calendar month, index 0 = January.
// Buckets are keyed by month of year only: callers aggregating a
// multi-year range without filtering first will blend same-month data
// from different years. The dashboard always pre-filters to one year.
type MonthlySeries [12]float64

// Add accumulates v into the month's bucket.
func (m *MonthlySeries) Add(month time.Month, v float64) {
	if month < time.January || month > time.December {
		return
	}
	m[month-1] += v
}

// Sum totals the twelve buckets.
func (m MonthlySeries) Sum() float64 {
	var total float64
	for _, v := range m {
		total += v
	}
	return total
}

// Values returns the buckets as a fresh slice for templates and JSON.
func (m MonthlySeries) Values() []float64 {
	out := make([]float64, len(m))
	copy(out, m[:])
	return out
}

// DateRange bounds a dashboard computation to an inclusive window. The
// zero range keeps everything. Rows without a parseable date cannot be
// compared against the window and pass through; they are dropped later by
// whichever aggregation needs a month anyway.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// YearRange covers one calendar year.
func YearRange(year int) DateRange {
	return DateRange{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (r DateRange) contains(t time.Time) bool {
	if r.Start.IsZero() || r.End.IsZero() || t.IsZero() {
		return true
	}
	return !t.Before(r.Start) && !t.After(r.End)
}

type latestSnapshot struct {
	when     time.Time
	amount   float64
	category string
}

// SnapshotStats is one pass over the asset-snapshot stream: the latest
// snapshot per asset plus the monthly pivot buckets. Build a fresh one
// per request with AccumulateSnapshots; nothing here is shared or cached.
type SnapshotStats struct {
	latest     map[string]latestSnapshot
	assetOrder []string // first-appearance order of asset names

	CategoryMonths map[string]*MonthlySeries
	AssetMonths    map[string]*MonthlySeries
	MonthlyTotals  MonthlySeries
}

// AccumulateSnapshots folds dated snapshots inside the range into fresh
// per-request state. Rows without a parseable date are skipped: they
// cannot land in a month bucket and cannot compete for "latest". Missing
// names and categories fall back to Unknown and Uncategorized so the
// totals still balance.
func AccumulateSnapshots(snaps []AssetSnapshot, r DateRange) *SnapshotStats {
	st := &SnapshotStats{
		latest:         make(map[string]latestSnapshot),
		CategoryMonths: make(map[string]*MonthlySeries),
		AssetMonths:    make(map[string]*MonthlySeries),
	}
	for _, s := range snaps {
		if s.when.IsZero() || !r.contains(s.when) {
			continue
		}
		name := s.Name
		if name == "" {
			name = "Unknown"
		}
		category := s.Category
		if category == "" {
			category = "Uncategorized"
		}

		// Later date wins; an exactly equal date keeps the first seen.
		prev, seen := st.latest[name]
		if !seen {
			st.assetOrder = append(st.assetOrder, name)
		}
		if !seen || s.when.After(prev.when) {
			st.latest[name] = latestSnapshot{when: s.when, amount: s.Amount, category: category}
		}

		monthSeries(st.AssetMonths, name).Add(s.when.Month(), s.Amount)
		monthSeries(st.CategoryMonths, category).Add(s.when.Month(), s.Amount)
		st.MonthlyTotals.Add(s.when.Month(), s.Amount)
	}
	return st
}

func monthSeries(m map[string]*MonthlySeries, key string) *MonthlySeries {
	s, ok := m[key]
	if !ok {
		s = &MonthlySeries{}
		m[key] = s
	}
	return s
}

// CurrentValue is the portfolio's current worth: each asset's latest
// snapshot, summed.
func (st *SnapshotStats) CurrentValue() float64 {
	var total float64
	for _, l := range st.latest {
		total += l.amount
	}
	return total
}

// CategoryCurrent returns current value per category. The label order
// follows the first appearance of each category among the assets, which
// keeps the pie chart stable between renders.
func (st *SnapshotStats) CategoryCurrent() ([]string, map[string]float64) {
	labels := make([]string, 0, len(st.CategoryMonths))
	values := make(map[string]float64, len(st.CategoryMonths))
	for _, name := range st.assetOrder {
		l := st.latest[name]
		if _, ok := values[l.category]; !ok {
			labels = append(labels, l.category)
		}
		values[l.category] += l.amount
	}
	return labels, values
}

// LatestAmount returns one asset's latest snapshot amount, zero when the
// asset has no dated snapshot.
func (st *SnapshotStats) LatestAmount(name string) float64 {
	return st.latest[name].amount
}

// CategoryLatest sums the latest snapshot of every asset in the category.
func (st *SnapshotStats) CategoryLatest(category string) float64 {
	var total float64
	for _, l := range st.latest {
		if l.category == category {
			total += l.amount
		}
	}
	return total
}

// LatestPortfolioValue sums each asset's most recent snapshot over an
// unfiltered listing. Unlike the dashboard accumulator it drops unnamed
// rows instead of grouping them, so a sheet of half-filled rows cannot
// inflate the headline number.
func LatestPortfolioValue(snaps []AssetSnapshot) float64 {
	latest := make(map[string]latestSnapshot)
	for _, s := range snaps {
		if s.Name == "" || s.when.IsZero() {
			continue
		}
		if prev, ok := latest[s.Name]; !ok || s.when.After(prev.when) {
			latest[s.Name] = latestSnapshot{when: s.when, amount: s.Amount}
		}
	}
	var total float64
	for _, l := range latest {
		total += l.amount
	}
	return total
}

// FlowStats aggregates investment cash flow: the headline invested total
// and the monthly net flow. A row without a parseable date still counts
// toward the total but cannot land in a month bucket.
type FlowStats struct {
	Total   float64
	Monthly MonthlySeries
}

// AccumulateFlows folds transactions inside the range into cash-flow
// state. Only deposits and withdrawals carry flow; see
// Transaction.FlowAmount.
func AccumulateFlows(txs []Transaction, r DateRange) FlowStats {
	var st FlowStats
	for _, t := range txs {
		if !r.contains(t.when) {
			continue
		}
		flow := t.FlowAmount()
		st.Total += flow
		if !t.when.IsZero() {
			st.Monthly.Add(t.when.Month(), flow)
		}
	}
	return st
}
