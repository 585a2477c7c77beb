package core

import "testing"

func TestLoadAssetSnapshotsHeaderSynonyms(t *testing.T) {
	rows := []Row{
		{"ID": "1", "Date": "2024-01-10", "Amount": "1,000", "Description": "Gold", "Category": "Commodity"},
		{"ID": "2", "Date": "2024-02-10", "Amount": 2000.0, "Asset": "BTC", "Category": "Crypto"},
		{"ID": "3", "Date": "2024-03-10", "Amount": "500", "Asset Name": "Cash", "Category": "Cash"},
	}
	snaps := LoadAssetSnapshots(rows, Filter{})
	if len(snaps) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snaps))
	}
	// Newest first.
	if snaps[0].Name != "Cash" || snaps[1].Name != "BTC" || snaps[2].Name != "Gold" {
		t.Fatalf("unexpected order: %s, %s, %s", snaps[0].Name, snaps[1].Name, snaps[2].Name)
	}
	if snaps[2].Amount != 1000 {
		t.Fatalf("expected 1000, got %v", snaps[2].Amount)
	}
	if snaps[0].Date != "10/03/2024" {
		t.Fatalf("expected display date, got %q", snaps[0].Date)
	}
}

func TestLoadAssetSnapshotsUnparseableDateSortsLast(t *testing.T) {
	rows := []Row{
		{"ID": "1", "Date": "soon", "Amount": "1", "Asset": "A"},
		{"ID": "2", "Date": "2024-05-01", "Amount": "2", "Asset": "B"},
	}
	snaps := LoadAssetSnapshots(rows, Filter{})
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	if snaps[0].Name != "B" || snaps[1].Name != "A" {
		t.Fatalf("undated row should sort last, got %s then %s", snaps[0].Name, snaps[1].Name)
	}
	if snaps[1].Date != "soon" {
		t.Fatalf("unparseable date should keep its raw text, got %q", snaps[1].Date)
	}
}

func TestLoadAssetSnapshotsFilters(t *testing.T) {
	rows := []Row{
		{"ID": "1", "Date": "2024-01-10", "Amount": "1", "Asset": "Gold Fund", "Category": "Commodity"},
		{"ID": "2", "Date": "2023-01-10", "Amount": "2", "Asset": "Gold Bar", "Category": "Commodity"},
		{"ID": "3", "Date": "2024-01-10", "Amount": "3", "Asset": "BTC", "Category": "Crypto"},
		{"ID": "4", "Date": "someday", "Amount": "4", "Asset": "Gold Coin", "Category": "Commodity"},
	}
	cases := []struct {
		f    Filter
		want []string
	}{
		{Filter{Name: "gold"}, []string{"Gold Fund", "Gold Bar", "Gold Coin"}},
		{Filter{Category: "Crypto"}, []string{"BTC"}},
		{Filter{Category: "crypto"}, nil}, // category match is exact
		{Filter{Year: 2024}, []string{"Gold Fund", "BTC"}},
		{Filter{Name: "gold", Year: 2023}, []string{"Gold Bar"}},
	}
	for i, tc := range cases {
		snaps := LoadAssetSnapshots(rows, tc.f)
		if len(snaps) != len(tc.want) {
			t.Fatalf("case %d expected %d records, got %d", i, len(tc.want), len(snaps))
		}
		for j, name := range tc.want {
			if snaps[j].Name != name {
				t.Fatalf("case %d record %d: expected %s, got %s", i, j, name, snaps[j].Name)
			}
		}
	}
}

func TestLoadTransactions(t *testing.T) {
	rows := []Row{
		{"ID": "1", "Date": "2024-02-01", "Action": "Buy", "Asset": "BTC", "Category": "Crypto",
			"Quantity": 0.1, "Unit Price": 45000, "Total Amount": -4500, "Note": ""},
		{"ID": "2", "Date": "2024-03-01", "Action": "Deposit", "Asset": "Cash", "Category": "Cash",
			"Quantity": nil, "Unit Price": nil, "Total Amount": "10,000", "Note": "payday"},
	}
	txs := LoadTransactions(rows, Filter{})
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	// Newest first: the deposit leads.
	if txs[0].Action != "Deposit" || txs[0].Amount != 10000 {
		t.Fatalf("unexpected first transaction: %+v", txs[0])
	}
	if txs[1].Qty != "0.1" || txs[1].Price != "45000" || txs[1].Amount != -4500 {
		t.Fatalf("unexpected buy transaction: %+v", txs[1])
	}
	if txs[0].Qty != "" {
		t.Fatalf("missing quantity should stay empty, got %q", txs[0].Qty)
	}
}

func TestLoadTransactionsActionFilter(t *testing.T) {
	rows := []Row{
		{"ID": "1", "Date": "2024-02-01", "Action": "Buy", "Asset": "BTC", "Total Amount": -4500},
		{"ID": "2", "Date": "2024-03-01", "Action": "Deposit", "Asset": "Cash", "Total Amount": 10000},
	}
	txs := LoadTransactions(rows, Filter{Action: "Buy"})
	if len(txs) != 1 || txs[0].Name != "BTC" {
		t.Fatalf("expected only the buy, got %+v", txs)
	}
}

func TestLoadDividends(t *testing.T) {
	rows := []Row{
		{"ID": "1", "Date": "2024-06-01", "Asset Name": "VTI", "Category": "ETF",
			"Dividend Amount": "32.50", "Reinvested": "Yes", "Note": ""},
		{"ID": "2", "Date": "2024-09-01", "Asset": "SCHD", "Category": "ETF",
			"Amount": 41.2},
	}
	divs := LoadDividends(rows, Filter{})
	if len(divs) != 2 {
		t.Fatalf("expected 2 dividends, got %d", len(divs))
	}
	if divs[0].Name != "SCHD" || divs[0].Amount != 41.2 {
		t.Fatalf("unexpected first dividend: %+v", divs[0])
	}
	if divs[0].Reinvested != "No" {
		t.Fatalf("missing reinvested should default to No, got %q", divs[0].Reinvested)
	}
	if divs[1].Amount != 32.5 {
		t.Fatalf("expected 32.5, got %v", divs[1].Amount)
	}
}
