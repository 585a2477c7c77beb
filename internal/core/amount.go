// Package core implements the portfolio aggregation and accounting engine:
// normalization of raw worksheet rows into typed records, monthly pivots,
// allocation vs. target, the investment-vs-asset reconciliation table and
// average-cost (DCA) tracking.
//
// Everything here is pure computation over values already read from the
// record store; no I/O happens in this package.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// amountCleaner strips the decorations people type into amount cells.
var amountCleaner = strings.NewReplacer(",", "", "฿", "", "$", "")

var amountPrinter = message.NewPrinter(language.English)

// ParseAmount converts a cell value into a float64 amount. Numeric values
// pass through; strings are trimmed and stripped of thousands separators
// and currency glyphs before parsing. Anything unparseable, including nil
// and the empty string, comes back as 0 so that bad cells participate in
// sums as zero instead of aborting an aggregation. ParseAmount never
// panics.
//
// Examples:
//
//	ParseAmount(1000)        -> 1000.0
//	ParseAmount("1,000.50")  -> 1000.5
//	ParseAmount("฿1,000")    -> 1000.0
//	ParseAmount("")          -> 0.0
func ParseAmount(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, _ := parseNumber(n)
		return f
	default:
		f, _ := parseNumber(fmt.Sprint(v))
		return f
	}
}

// parseNumber coerces a cell to a number, reporting failure instead of
// falling back to zero. The DCA engine depends on the failure signal to
// tell a malformed quantity or price apart from a legitimate zero.
func parseNumber(v any) (float64, bool) {
	var s string
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s = n
	default:
		s = fmt.Sprint(v)
	}
	s = strings.TrimSpace(amountCleaner.Replace(s))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatAmount renders an amount with thousands separators and a fixed
// number of decimal places, optionally prefixed with the baht sign.
// Non-finite input renders as "0.00".
//
// Examples:
//
//	FormatAmount(1000.5, false, 2) -> "1,000.50"
//	FormatAmount(1000.5, true, 2)  -> "฿1,000.50"
//	FormatAmount(1000, false, 0)   -> "1,000"
func FormatAmount(v float64, withSymbol bool, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.00"
	}
	if decimals < 0 {
		decimals = 2
	}
	s := amountPrinter.Sprint(number.Decimal(v, number.Scale(decimals)))
	if withSymbol {
		return "฿" + s
	}
	return s
}
