package core

// AllocationRow compares one active category's current value against its
// target share of the portfolio. ActionAmount is the cash delta that
// would close the gap: positive means buy, negative means trim.
type AllocationRow struct {
	Category     string  `json:"category"`
	ActualValue  float64 `json:"actual_val"`
	TargetPct    float64 `json:"target_pct"`
	ActualPct    float64 `json:"actual_pct"`
	DiffPct      float64 `json:"diff_pct"`
	ActionAmount float64 `json:"action_amount"`
	TargetValue  float64 `json:"target_val"`
}

// BuildAllocation produces one row per active category, in settings
// order. Percentages are computed against the portfolio's total current
// value; with an empty portfolio every actual share is zero and every
// action equals the target value itself.
//
// Example:
//
//	rows := core.BuildAllocation(settings.Categories, stats)
//	for _, r := range rows {
//		fmt.Printf("%s: %.1f%% of target %.1f%%\n", r.Category, r.ActualPct, r.TargetPct)
//	}
func BuildAllocation(categories []CategorySetting, stats *SnapshotStats) []AllocationRow {
	total := stats.CurrentValue()
	rows := make([]AllocationRow, 0, len(categories))
	for _, c := range categories {
		if !c.Active {
			continue
		}
		actual := stats.CategoryLatest(c.Name)
		row := AllocationRow{
			Category:    c.Name,
			ActualValue: actual,
			TargetPct:   c.Target,
			TargetValue: total * c.Target / 100,
		}
		if total > 0 {
			row.ActualPct = actual / total * 100
		}
		row.DiffPct = row.ActualPct - row.TargetPct
		row.ActionAmount = row.TargetValue - actual
		rows = append(rows, row)
	}
	return rows
}
