package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  any
		out float64
	}{
		{"1234.50", 1234.50},
		{"1,234.50", 1234.50},
		{"฿1,234.50", 1234.50},
		{"$1,234.50", 1234.50},
		{" 2500 ", 2500},
		{"-4000", -4000},
		{"0", 0},
		{1234.5, 1234.5},
		{float32(2.5), 2.5},
		{42, 42},
		{int64(7), 7},
		{nil, 0},
		{"", 0},
		{"abc", 0},
		{"1.2.3", 0},
		{true, 0},
	}
	for i, tc := range cases {
		if got := ParseAmount(tc.in); got != tc.out {
			t.Fatalf("case %d (%v): expected %v, got %v", i, tc.in, tc.out, got)
		}
	}
}

func TestParseAmountGlyphRoundTrip(t *testing.T) {
	if ParseAmount("฿1,234.50") != ParseAmount("1234.50") {
		t.Fatalf("glyph form should parse to the same value as the plain form")
	}
}

func TestParseNumberStrict(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"0.1", 0.1, true},
		{"40000", 40000, true},
		{"1,000", 1000, true},
		{"0", 0, true},
		{"", 0, false},
		{"invalid", 0, false},
	}
	for i, tc := range cases {
		got, ok := parseNumber(tc.in)
		if ok != tc.ok || got != tc.out {
			t.Fatalf("case %d (%q): expected (%v, %v), got (%v, %v)", i, tc.in, tc.out, tc.ok, got, ok)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in       float64
		symbol   bool
		decimals int
		out      string
	}{
		{1234.5, false, 2, "1,234.50"},
		{1234.5, true, 2, "฿1,234.50"},
		{1234567.891, false, 2, "1,234,567.89"},
		{0, false, 2, "0.00"},
		{-9876.5, false, 2, "-9,876.50"},
		{12.345, false, 0, "12"},
	}
	for i, tc := range cases {
		if got := FormatAmount(tc.in, tc.symbol, tc.decimals); got != tc.out {
			t.Fatalf("case %d: expected %q, got %q", i, tc.out, got)
		}
	}
}
