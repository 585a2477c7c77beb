package core

import (
	"slices"
	"strings"
	"time"
)

// AnalysisMode selects the bucketing of the dividend analysis series.
type AnalysisMode string

const (
	AnalysisYearly  AnalysisMode = "yearly"
	AnalysisMonthly AnalysisMode = "monthly"
)

// ParseAnalysisMode maps a query value to a mode, defaulting to yearly.
func ParseAnalysisMode(s string) AnalysisMode {
	if strings.EqualFold(strings.TrimSpace(s), string(AnalysisMonthly)) {
		return AnalysisMonthly
	}
	return AnalysisYearly
}

// BuildDividendAnalysis buckets dividend income by year or by
// year-month. Keys sort ascending; monthly buckets label as "Jan 2006".
// Records without a parseable date are left out, since they have no
// bucket to land in.
func BuildDividendAnalysis(divs []Dividend, mode AnalysisMode) Series {
	byKey := make(map[string]float64)
	for _, d := range divs {
		if d.when.IsZero() {
			continue
		}
		key := d.when.Format("2006")
		if mode == AnalysisMonthly {
			key = d.when.Format("2006-01")
		}
		byKey[key] += d.Amount
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	s := Series{Labels: make([]string, 0, len(keys)), Values: make([]float64, 0, len(keys))}
	for _, k := range keys {
		label := k
		if mode == AnalysisMonthly {
			if t, err := time.Parse("2006-01", k); err == nil {
				label = t.Format("Jan 2006")
			}
		}
		s.Labels = append(s.Labels, label)
		s.Values = append(s.Values, byKey[k])
	}
	return s
}

// BuildMonthlyDividends buckets dividend income by month of year for the
// dividends page chart. Callers pass a pre-filtered listing; records from
// different years blend into the same month.
func BuildMonthlyDividends(divs []Dividend) MonthlySeries {
	var m MonthlySeries
	for _, d := range divs {
		if d.when.IsZero() {
			continue
		}
		m.Add(d.when.Month(), d.Amount)
	}
	return m
}

// SumDividends totals the amounts of a listing.
func SumDividends(divs []Dividend) float64 {
	var total float64
	for _, d := range divs {
		total += d.Amount
	}
	return total
}

// MonthlyDividendAverage spreads a positive yearly total across twelve
// months, zero otherwise.
func MonthlyDividendAverage(total float64) float64 {
	if total <= 0 {
		return 0
	}
	return total / 12
}
