package core

import (
	"math"
	"slices"
	"strings"
)

// Series is one labeled chart dataset.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// AssetLine is one asset's twelve-month valuation line. A zero month
// means no snapshot and renders as a gap, which also hides a genuinely
// zero-valued snapshot; the upstream data never records those.
type AssetLine struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// BuildAssetLines turns a snapshot listing into per-asset monthly lines.
// The first record seen for an asset's month wins, so callers pass the
// newest-first listing to chart the latest snapshot of each month. Lines
// come back in alphabetical asset order.
func BuildAssetLines(snaps []AssetSnapshot) []AssetLine {
	byAsset := make(map[string]*MonthlySeries)
	var names []string
	for _, s := range snaps {
		if s.when.IsZero() {
			continue
		}
		m, ok := byAsset[s.Name]
		if !ok {
			m = &MonthlySeries{}
			byAsset[s.Name] = m
			names = append(names, s.Name)
		}
		if m[s.when.Month()-1] == 0 {
			m[s.when.Month()-1] = s.Amount
		}
	}
	slices.Sort(names)
	lines := make([]AssetLine, 0, len(names))
	for _, name := range names {
		lines = append(lines, AssetLine{Name: name, Values: byAsset[name].Values()})
	}
	return lines
}

// InvestmentFlowChart is the monthly cash-flow chart of the investments
// page: deposit bars, withdraw bars drawn below zero, and a buy-volume
// line, all as magnitudes.
type InvestmentFlowChart struct {
	Labels    []string  `json:"labels"`
	Deposits  []float64 `json:"deposits"`
	Withdraws []float64 `json:"withdraws"`
	Buys      []float64 `json:"buys"`
}

// BuildInvestmentFlows buckets transaction magnitudes by month of year.
// Withdrawals are negated for display. Undated records are skipped.
func BuildInvestmentFlows(txs []Transaction) InvestmentFlowChart {
	var deposits, withdraws, buys MonthlySeries
	for _, t := range txs {
		if t.when.IsZero() {
			continue
		}
		switch strings.ToLower(t.Action) {
		case "deposit":
			deposits.Add(t.when.Month(), math.Abs(t.Amount))
		case "withdraw":
			withdraws.Add(t.when.Month(), math.Abs(t.Amount))
		case "buy":
			buys.Add(t.when.Month(), math.Abs(t.Amount))
		}
	}
	chart := InvestmentFlowChart{
		Labels:    slices.Clone(MonthsShort),
		Deposits:  deposits.Values(),
		Withdraws: withdraws.Values(),
		Buys:      buys.Values(),
	}
	for i, v := range chart.Withdraws {
		chart.Withdraws[i] = -v
	}
	return chart
}
