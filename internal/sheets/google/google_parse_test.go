package google

import (
	"testing"
)

func TestRecordsFromGrid(t *testing.T) {
	values := [][]any{
		{"ID", "Date", "Amount", "Description", ""},
		{"a1", "2024-03-15", 1500.0, "Gold"},
		{"a2", nil, "2,600", "BTC", "ignored"},
		{"a3"},
	}

	records := recordsFromGrid(values)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	// Numeric cells pass through unconverted.
	if v, ok := records[0]["Amount"].(float64); !ok || v != 1500.0 {
		t.Errorf("expected numeric Amount 1500.0, got %v", records[0]["Amount"])
	}
	if records[1]["Date"] != "" {
		t.Errorf("expected nil cell mapped to empty string, got %v", records[1]["Date"])
	}
	if records[1]["Amount"] != "2,600" {
		t.Errorf("expected formatted string kept, got %v", records[1]["Amount"])
	}

	// Short rows still carry every header key.
	for _, key := range []string{"ID", "Date", "Amount", "Description"} {
		if _, ok := records[2][key]; !ok {
			t.Errorf("missing key %q in short row", key)
		}
	}
	if records[2]["Description"] != "" {
		t.Errorf("expected empty string for absent cell, got %v", records[2]["Description"])
	}

	// The blank header column contributes no key.
	if _, ok := records[1][""]; ok {
		t.Error("blank header should not produce a record key")
	}
}

func TestRecordsFromGridEmpty(t *testing.T) {
	if got := recordsFromGrid(nil); len(got) != 0 {
		t.Errorf("expected no records for empty grid, got %d", len(got))
	}
	if got := recordsFromGrid([][]any{{"ID", "Date"}}); len(got) != 0 {
		t.Errorf("expected no records for header-only grid, got %d", len(got))
	}
}

func TestToStrings(t *testing.T) {
	row := []any{" Gold ", 42.5, nil, true}
	got := toStrings(row)
	want := []string{"Gold", "42.5", "", "true"}
	if len(got) != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestColName(t *testing.T) {
	tests := []struct {
		col      int
		expected string
	}{
		{1, "A"},
		{2, "B"},
		{5, "E"},
		{9, "I"},
		{26, "Z"},
		{27, "AA"},
		{28, "AB"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
		{0, "A"}, // clamped
	}

	for _, tt := range tests {
		if got := colName(tt.col); got != tt.expected {
			t.Errorf("colName(%d) = %q, want %q", tt.col, got, tt.expected)
		}
	}
}
