package core

import "testing"

func TestBuildMonthlyComparison(t *testing.T) {
	var flows, assets MonthlySeries
	flows[0] = 1000
	assets[0] = 1000
	assets[1] = 1050
	assets[2] = 1050

	cmp := BuildMonthlyComparison(flows, assets, 1050)
	if len(cmp.Rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(cmp.Rows))
	}
	if cmp.Rows[0].Investment != 1000 || cmp.Rows[0].Diff != 0 {
		t.Fatalf("unexpected January row: %+v", cmp.Rows[0])
	}
	// The running total carries into February even with no new flow.
	if cmp.Rows[1].Investment != 1000 || cmp.Rows[1].Diff != 50 {
		t.Fatalf("unexpected February row: %+v", cmp.Rows[1])
	}
	if !almost(cmp.Rows[1].DiffPct, 5) {
		t.Fatalf("expected 5%%, got %v", cmp.Rows[1].DiffPct)
	}
	// April onward has neither flow nor assets and renders blank.
	if cmp.Rows[3].Investment != 0 || cmp.Rows[3].Diff != 0 || cmp.Rows[3].DiffPct != 0 {
		t.Fatalf("expected blank April row: %+v", cmp.Rows[3])
	}
	if cmp.Rows[3].Month != "Apr" {
		t.Fatalf("expected Apr label, got %q", cmp.Rows[3].Month)
	}

	if cmp.TotalInvest != 1000 || cmp.TotalAsset != 1050 || cmp.TotalDiff != 50 {
		t.Fatalf("unexpected totals: %+v", cmp)
	}
	if !almost(cmp.TotalDiffPct, 5) {
		t.Fatalf("expected total diff 5%%, got %v", cmp.TotalDiffPct)
	}
}

func TestBuildMonthlyComparisonBlankDoesNotResetRunning(t *testing.T) {
	var flows, assets MonthlySeries
	flows[0] = 1000
	// February is blank, March only has an asset total.
	assets[0] = 1000
	assets[2] = 1100

	cmp := BuildMonthlyComparison(flows, assets, 1100)
	if cmp.Rows[1].Investment != 0 {
		t.Fatalf("blank month should render zero, got %v", cmp.Rows[1].Investment)
	}
	if cmp.Rows[2].Investment != 1000 || cmp.Rows[2].Diff != 100 {
		t.Fatalf("running total must survive the blank month: %+v", cmp.Rows[2])
	}
}

func TestBuildMonthlyComparisonZeroRunningGuard(t *testing.T) {
	var flows, assets MonthlySeries
	assets[0] = 500 // assets exist before any recorded flow

	cmp := BuildMonthlyComparison(flows, assets, 500)
	if cmp.Rows[0].Investment != 0 || cmp.Rows[0].Diff != 500 || cmp.Rows[0].DiffPct != 0 {
		t.Fatalf("zero running total must not divide: %+v", cmp.Rows[0])
	}
	if cmp.TotalDiffPct != 0 {
		t.Fatalf("zero invested total must not divide: %v", cmp.TotalDiffPct)
	}
}
