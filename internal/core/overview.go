package core

import "slices"

// PivotRow is one line of a monthly pivot table. Total is the latest
// snapshot value, not the sum of the months; Avg is the month sum spread
// over twelve months regardless of how many actually carry data.
type PivotRow struct {
	Name   string    `json:"name"`
	Months []float64 `json:"months"`
	Total  float64   `json:"total"`
	Avg    float64   `json:"avg"`
}

// Overview is everything the main dashboard renders.
type Overview struct {
	TotalInvestment float64 `json:"total_investment"`
	CurrentAsset    float64 `json:"current_asset"`
	ProfitLoss      float64 `json:"profit_loss"`

	PieLabels  []string  `json:"pie_chart_labels"`
	PieValues  []float64 `json:"pie_chart_data"`
	LineLabels []string  `json:"line_chart_labels"`
	LineValues []float64 `json:"line_chart_data"`

	CategoryPivot []PivotRow        `json:"inv_pivot_table"`
	AssetPivot    []PivotRow        `json:"asset_pivot_table"`
	Summary       MonthlyComparison `json:"main_summary_table"`
	Allocation    []AllocationRow   `json:"allocation_table"`
}

// EmptyOverview returns a structurally complete zero-valued dashboard:
// twelve month labels, empty collections rather than nil. Handlers fall
// back to it when the store cannot be read, so "no data" and "backend
// down" render the same empty page instead of an error.
func EmptyOverview() Overview {
	return Overview{
		PieLabels:  []string{},
		PieValues:  []float64{},
		LineLabels: slices.Clone(MonthsShort),
		LineValues: make([]float64, 12),
		Summary: MonthlyComparison{
			Rows: emptyComparisonRows(),
		},
		CategoryPivot: []PivotRow{},
		AssetPivot:    []PivotRow{},
		Allocation:    []AllocationRow{},
	}
}

func emptyComparisonRows() []ComparisonRow {
	rows := make([]ComparisonRow, 0, 12)
	for _, m := range MonthsShort {
		rows = append(rows, ComparisonRow{Month: m})
	}
	return rows
}

// BuildOverview runs the full dashboard aggregation: snapshots and flows
// folded over the range, reconciliation against the running invested
// total, allocation against targets, and the category and asset pivots.
// Pivot rows follow the active settings in configuration order and keep
// dataless entries as zero rows. The pie covers every category observed
// in latest snapshots, active or not.
func BuildOverview(snaps []AssetSnapshot, txs []Transaction, settings Settings, r DateRange) Overview {
	stats := AccumulateSnapshots(snaps, r)
	flows := AccumulateFlows(txs, r)
	current := stats.CurrentValue()

	summary := BuildMonthlyComparison(flows.Monthly, stats.MonthlyTotals, current)

	o := Overview{
		TotalInvestment: flows.Total,
		CurrentAsset:    current,
		ProfitLoss:      current - flows.Total,
		LineLabels:      slices.Clone(MonthsShort),
		Summary:         summary,
		Allocation:      BuildAllocation(settings.Categories, stats),
	}

	pieLabels, pieValues := stats.CategoryCurrent()
	o.PieLabels = pieLabels
	o.PieValues = make([]float64, 0, len(pieLabels))
	for _, label := range pieLabels {
		o.PieValues = append(o.PieValues, pieValues[label])
	}

	o.LineValues = make([]float64, 0, 12)
	for _, row := range summary.Rows {
		o.LineValues = append(o.LineValues, row.Investment)
	}

	o.CategoryPivot = make([]PivotRow, 0, len(settings.Categories))
	for _, name := range settings.ActiveCategoryNames() {
		o.CategoryPivot = append(o.CategoryPivot, pivotRow(name, stats.CategoryMonths[name], stats.CategoryLatest(name)))
	}
	o.AssetPivot = make([]PivotRow, 0, len(settings.Assets))
	for _, name := range settings.ActiveAssetNames() {
		o.AssetPivot = append(o.AssetPivot, pivotRow(name, stats.AssetMonths[name], stats.LatestAmount(name)))
	}
	return o
}

func pivotRow(name string, months *MonthlySeries, latest float64) PivotRow {
	if months == nil {
		months = &MonthlySeries{}
	}
	return PivotRow{
		Name:   name,
		Months: months.Values(),
		Total:  latest,
		Avg:    months.Sum() / 12,
	}
}
