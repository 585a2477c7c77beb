package core

import (
	"math"
	"testing"
	"time"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildAllocation(t *testing.T) {
	snaps := []AssetSnapshot{
		{Name: "BTC", Category: "Crypto", Amount: 300, when: ymd(2024, time.March, 1)},
		{Name: "Cash", Category: "Cash", Amount: 700, when: ymd(2024, time.March, 1)},
	}
	st := AccumulateSnapshots(snaps, DateRange{})

	categories := []CategorySetting{
		{Name: "Crypto", Active: true, Target: 50},
		{Name: "Stocks", Active: false, Target: 30},
		{Name: "Bonds", Active: true, Target: 10},
	}
	rows := BuildAllocation(categories, st)
	if len(rows) != 2 {
		t.Fatalf("expected 2 active rows, got %d", len(rows))
	}

	// Total 1000, Crypto holds 300 against a 50% target.
	r := rows[0]
	if r.Category != "Crypto" || !almost(r.ActualPct, 30) || !almost(r.DiffPct, -20) {
		t.Fatalf("unexpected crypto row: %+v", r)
	}
	if !almost(r.TargetValue, 500) || !almost(r.ActionAmount, 200) {
		t.Fatalf("expected target 500 and action 200, got %+v", r)
	}

	// A configured category with no holdings still gets a row.
	b := rows[1]
	if b.Category != "Bonds" || b.ActualValue != 0 || !almost(b.TargetValue, 100) || !almost(b.ActionAmount, 100) {
		t.Fatalf("unexpected bonds row: %+v", b)
	}
}

func TestBuildAllocationEmptyPortfolio(t *testing.T) {
	st := AccumulateSnapshots(nil, DateRange{})
	rows := BuildAllocation([]CategorySetting{{Name: "Crypto", Active: true, Target: 50}}, st)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.ActualPct != 0 || r.DiffPct != -50 || r.TargetValue != 0 || r.ActionAmount != 0 {
		t.Fatalf("unexpected empty-portfolio row: %+v", r)
	}
}
