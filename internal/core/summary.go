package core

// ComparisonRow is one month of the investment-vs-asset table.
type ComparisonRow struct {
	Month      string  `json:"month"`
	AssetValue float64 `json:"asset_value"`
	Investment float64 `json:"investment"`
	Diff       float64 `json:"diff"`
	DiffPct    float64 `json:"diff_pct"`
}

// MonthlyComparison reconciles the invested running total against the
// monthly asset valuations. Totals compare the final running investment
// with the portfolio's current value, not with any single month's column.
type MonthlyComparison struct {
	Rows         []ComparisonRow `json:"rows"`
	TotalInvest  float64         `json:"total_invest"`
	TotalAsset   float64         `json:"total_asset"`
	TotalDiff    float64         `json:"total_diff"`
	TotalDiffPct float64         `json:"total_diff_pct"`
}

// BuildMonthlyComparison walks January through December carrying a
// running invested total. A month whose asset total and flow are both
// exactly zero renders as a blank row without disturbing the running
// total; a legitimately liquidated month renders blank too, which is a
// known approximation kept on purpose.
func BuildMonthlyComparison(flows MonthlySeries, assets MonthlySeries, currentValue float64) MonthlyComparison {
	cmp := MonthlyComparison{Rows: make([]ComparisonRow, 0, 12)}
	var running float64
	for i := 0; i < 12; i++ {
		running += flows[i]
		row := ComparisonRow{Month: MonthsShort[i], AssetValue: assets[i]}
		if assets[i] != 0 || flows[i] != 0 {
			row.Investment = running
			row.Diff = assets[i] - running
			if running > 0 {
				row.DiffPct = row.Diff / running * 100
			}
		}
		cmp.Rows = append(cmp.Rows, row)
	}
	cmp.TotalInvest = running
	cmp.TotalAsset = currentValue
	cmp.TotalDiff = cmp.TotalAsset - cmp.TotalInvest
	if cmp.TotalInvest > 0 {
		cmp.TotalDiffPct = cmp.TotalDiff / cmp.TotalInvest * 100
	}
	return cmp
}
