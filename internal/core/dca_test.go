package core

import (
	"testing"
)

func tx(action, name, date, qty, price string, amount float64) Transaction {
	t := Transaction{Action: action, Name: name, Date: date, Qty: qty, Price: price, Amount: amount}
	t.when, _ = ParseDate(date)
	return t
}

func TestPositionAverageCost(t *testing.T) {
	var p Position
	p.Buy(0.1, -4000)
	p.Buy(0.1, -4500)
	if p.Invested != 8500 || !almost(p.Units, 0.2) {
		t.Fatalf("expected 8500 invested over 0.2 units, got %+v", p)
	}
	if !almost(p.AvgCost(), 42500) {
		t.Fatalf("expected avg 42500, got %v", p.AvgCost())
	}

	p.Sell(0.05)
	if !almost(p.Invested, 6375) || !almost(p.Units, 0.15) {
		t.Fatalf("unexpected position after sell: %+v", p)
	}
	// Selling at average cost leaves the average unchanged.
	if !almost(p.AvgCost(), 42500) {
		t.Fatalf("expected avg 42500 after sell, got %v", p.AvgCost())
	}
}

func TestPositionZeroUnits(t *testing.T) {
	var p Position
	if p.AvgCost() != 0 || p.UnrealizedPLPct() != 0 {
		t.Fatalf("empty position must not divide: %+v", p)
	}
	p.Sell(1) // sell with nothing held removes units at zero cost
	if p.Invested != 0 || p.Units != -1 {
		t.Fatalf("unexpected position: %+v", p)
	}
}

func TestBuildDCASnapshot(t *testing.T) {
	txs := []Transaction{
		tx("Buy", "BTC", "2024-01-01", "0.1", "40000", -4000),
		tx("Buy", "BTC", "2024-02-01", "0.1", "45000", -4500),
		tx("Buy", "ETH", "2024-03-01", "1.0", "3000", -3000),
		tx("Deposit", "Cash", "2024-04-01", "", "", 10000),
	}
	names := []string{"BTC", "ETH", "AAPL"}

	snap, skipped := BuildDCASnapshot(txs, names, "", 2024)
	if len(skipped) != 0 {
		t.Fatalf("expected no skips, got %d", len(skipped))
	}

	m := snap.Metrics
	if m.TotalInvested != 11500 || !almost(m.TotalUnits, 1.2) {
		t.Fatalf("unexpected totals: %+v", m)
	}
	if !almost(m.AvgCost, 11500/1.2) {
		t.Fatalf("expected blended avg, got %v", m.AvgCost)
	}
	if m.LastPrice != 3000 {
		t.Fatalf("expected last price 3000, got %v", m.LastPrice)
	}
	if !almost(m.CurrentValue, 3600) || !almost(m.UnrealizedPL, -7900) {
		t.Fatalf("unexpected valuation: %+v", m)
	}
	if !almost(m.UnrealizedPLPct, -7900.0/11500*100) {
		t.Fatalf("unexpected P/L pct: %v", m.UnrealizedPLPct)
	}

	if len(snap.Breakdown) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(snap.Breakdown))
	}
	// Sorted by invested, largest first.
	if snap.Breakdown[0].Name != "BTC" || snap.Breakdown[0].Invested != 8500 {
		t.Fatalf("unexpected top holding: %+v", snap.Breakdown[0])
	}
	if !almost(snap.Breakdown[0].AvgPrice, 42500) || snap.Breakdown[0].LastPrice != 45000 {
		t.Fatalf("unexpected BTC holding: %+v", snap.Breakdown[0])
	}
	if snap.Breakdown[1].Name != "ETH" || snap.Breakdown[1].Units != 1.0 {
		t.Fatalf("unexpected ETH holding: %+v", snap.Breakdown[1])
	}

	if len(snap.Assets) != 3 || snap.Assets[0] != "BTC" {
		t.Fatalf("unexpected asset universe: %v", snap.Assets)
	}

	cm := snap.CostVsMarket
	if len(cm.Labels) != 3 {
		t.Fatalf("expected 3 chart points, got %d", len(cm.Labels))
	}
	if cm.Cost[0] != 4000 || cm.Cost[1] != 8500 || cm.Cost[2] != 11500 {
		t.Fatalf("unexpected cumulative cost: %v", cm.Cost)
	}
	if !almost(cm.Value[0], 4000) || !almost(cm.Value[1], 9000) || !almost(cm.Value[2], 3600) {
		t.Fatalf("unexpected market value: %v", cm.Value)
	}
	if cm.Labels[0] != "01/01/2024" {
		t.Fatalf("expected display date label, got %q", cm.Labels[0])
	}

	mb := snap.MonthlyBuys
	if len(mb.Labels) != 12 || len(mb.Amounts) != 12 {
		t.Fatalf("expected 12 months, got %d/%d", len(mb.Labels), len(mb.Amounts))
	}
	if mb.Amounts[0] != 4000 || mb.Amounts[1] != 4500 || mb.Amounts[2] != 3000 {
		t.Fatalf("unexpected monthly buys: %v", mb.Amounts)
	}
}

func TestBuildDCASnapshotAssetFilter(t *testing.T) {
	txs := []Transaction{
		tx("Buy", "BTC", "2024-01-01", "0.1", "40000", -4000),
		tx("Buy", "BTC", "2024-02-01", "0.1", "45000", -4500),
		tx("Buy", "ETH", "2024-03-01", "1.0", "3000", -3000),
	}
	snap, _ := BuildDCASnapshot(txs, []string{"BTC", "ETH"}, "BTC", 2024)

	m := snap.Metrics
	if m.TotalInvested != 8500 || !almost(m.TotalUnits, 0.2) || !almost(m.AvgCost, 42500) {
		t.Fatalf("unexpected filtered metrics: %+v", m)
	}
	if m.LastPrice != 45000 {
		t.Fatalf("expected last price 45000, got %v", m.LastPrice)
	}
	if len(snap.Breakdown) != 1 || snap.Breakdown[0].Name != "BTC" {
		t.Fatalf("expected only BTC, got %+v", snap.Breakdown)
	}
}

func TestBuildDCASnapshotSortsBeforeFolding(t *testing.T) {
	// The sell arrives first in the listing but last by date. Folding in
	// listing order would sell from an empty position.
	txs := []Transaction{
		tx("Sell", "BTC", "2024-03-01", "0.05", "50000", 2500),
		tx("Buy", "BTC", "2024-01-01", "0.1", "40000", -4000),
		tx("Buy", "BTC", "2024-02-01", "0.1", "45000", -4500),
	}
	snap, _ := BuildDCASnapshot(txs, nil, "", 2024)

	m := snap.Metrics
	if !almost(m.TotalInvested, 6375) || !almost(m.TotalUnits, 0.15) {
		t.Fatalf("expected date-ordered fold, got %+v", m)
	}
	if !almost(m.AvgCost, 42500) {
		t.Fatalf("expected avg 42500, got %v", m.AvgCost)
	}
	if m.LastPrice != 50000 {
		t.Fatalf("expected the sell to set last price, got %v", m.LastPrice)
	}
	// The sell pulls March's flow negative.
	if !almost(snap.MonthlyBuys.Amounts[2], -2500) {
		t.Fatalf("unexpected March flow: %v", snap.MonthlyBuys.Amounts[2])
	}
}

func TestBuildDCASnapshotSkipsMalformed(t *testing.T) {
	rows := []Row{
		{"ID": "1", "Date": "2024-01-01", "Action": "Buy", "Asset": "BTC", "Quantity": "invalid", "Unit Price": 40000, "Total Amount": -4000},
		{"ID": "2", "Date": "2024-02-01", "Action": "Buy", "Asset": "ETH", "Quantity": 1.0, "Unit Price": nil, "Total Amount": -3000},
		{"ID": "3", "Date": "2024-03-01", "Action": "Buy", "Asset": "SOL", "Quantity": 10, "Unit Price": 100, "Total Amount": -1000},
	}
	txs := LoadTransactions(rows, Filter{})

	snap, skipped := BuildDCASnapshot(txs, nil, "", 2024)
	if len(skipped) != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", len(skipped))
	}
	if snap.Metrics.TotalInvested != 1000 || snap.Metrics.TotalUnits != 10 {
		t.Fatalf("only the valid row should fold: %+v", snap.Metrics)
	}
	if len(snap.Breakdown) != 1 || snap.Breakdown[0].Name != "SOL" {
		t.Fatalf("unexpected breakdown: %+v", snap.Breakdown)
	}
}

func TestBuildDCASnapshotMonthlyBuyYearScope(t *testing.T) {
	txs := []Transaction{
		tx("Buy", "BTC", "2023-05-01", "0.1", "30000", -3000),
		tx("Buy", "BTC", "2024-05-01", "0.1", "40000", -4000),
	}
	snap, _ := BuildDCASnapshot(txs, nil, "", 2024)
	if snap.MonthlyBuys.Amounts[4] != 4000 {
		t.Fatalf("expected only the 2024 buy in May, got %v", snap.MonthlyBuys.Amounts[4])
	}
	// Both buys still count toward the position.
	if snap.Metrics.TotalInvested != 7000 {
		t.Fatalf("expected 7000 invested, got %v", snap.Metrics.TotalInvested)
	}
}

func TestBuildDCASnapshotEmpty(t *testing.T) {
	snap, skipped := BuildDCASnapshot(nil, nil, "", 2024)
	if len(skipped) != 0 {
		t.Fatalf("expected no skips")
	}
	m := snap.Metrics
	if m.TotalInvested != 0 || m.AvgCost != 0 || m.LastPrice != 0 || m.UnrealizedPLPct != 0 {
		t.Fatalf("expected zeroed metrics: %+v", m)
	}
	if snap.Breakdown == nil || len(snap.Breakdown) != 0 {
		t.Fatalf("expected empty breakdown slice")
	}
	if len(snap.MonthlyBuys.Labels) != 12 {
		t.Fatalf("expected 12 month labels")
	}
}
