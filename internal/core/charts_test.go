package core

import (
	"testing"
	"time"
)

func TestBuildAssetLines(t *testing.T) {
	// Newest-first listing: the March 1 snapshot for Zinc precedes the
	// older one, so its value wins the month.
	snaps := []AssetSnapshot{
		{Name: "Zinc", Amount: 300, when: ymd(2024, time.March, 20)},
		{Name: "Zinc", Amount: 250, when: ymd(2024, time.March, 1)},
		{Name: "Alu", Amount: 100, when: ymd(2024, time.January, 5)},
		{Name: "NoDate", Amount: 999},
	}
	lines := BuildAssetLines(snaps)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	// Alphabetical order.
	if lines[0].Name != "Alu" || lines[1].Name != "Zinc" {
		t.Fatalf("unexpected order: %s, %s", lines[0].Name, lines[1].Name)
	}
	if lines[1].Values[2] != 300 {
		t.Fatalf("first record of the month should win, got %v", lines[1].Values[2])
	}
	if lines[0].Values[0] != 100 || lines[0].Values[5] != 0 {
		t.Fatalf("unexpected Alu line: %v", lines[0].Values)
	}
}

func TestBuildInvestmentFlows(t *testing.T) {
	txs := []Transaction{
		{Action: "Deposit", Amount: 1000, when: ymd(2024, time.January, 5)},
		{Action: "Withdraw", Amount: -200, when: ymd(2024, time.January, 20)},
		{Action: "Buy", Amount: -4000, when: ymd(2024, time.February, 5)},
		{Action: "Sell", Amount: 2500, when: ymd(2024, time.February, 15)},
		{Action: "Deposit", Amount: 500},
	}
	chart := BuildInvestmentFlows(txs)
	if len(chart.Labels) != 12 {
		t.Fatalf("expected 12 labels, got %d", len(chart.Labels))
	}
	if chart.Deposits[0] != 1000 {
		t.Fatalf("expected January deposit 1000, got %v", chart.Deposits[0])
	}
	if chart.Withdraws[0] != -200 {
		t.Fatalf("withdrawals draw below zero, got %v", chart.Withdraws[0])
	}
	if chart.Buys[1] != 4000 {
		t.Fatalf("expected February buy volume 4000, got %v", chart.Buys[1])
	}
	// Sells are not part of this chart, and undated rows stay out.
	if chart.Deposits[0]+chart.Deposits[1] != 1000 {
		t.Fatalf("undated deposit must not land in a bucket: %v", chart.Deposits)
	}
}
