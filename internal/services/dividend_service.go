package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"folio/internal/amqp"
	"folio/internal/core"
	"folio/internal/sheets"
)

// DividendService manages the dividend worksheet.
type DividendService struct {
	store     sheets.RowStore
	sheet     string
	publisher SyncPublisher
}

func NewDividendService(store sheets.RowStore, sheet string, publisher SyncPublisher) *DividendService {
	return &DividendService{
		store:     store,
		sheet:     sheet,
		publisher: publisher,
	}
}

// List returns dividends filtered by asset name and year, newest first.
func (s *DividendService) List(ctx context.Context, name string, year int) ([]core.Dividend, error) {
	rows, err := s.store.ReadRows(ctx, s.sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.sheet, err)
	}
	return core.LoadDividends(rows, core.Filter{Name: name, Year: year}), nil
}

// Add validates and appends one dividend, then reports it to the sync
// pipeline.
func (s *DividendService) Add(ctx context.Context, in core.DividendInput) (core.Dividend, error) {
	rec, err := core.NewDividend(uuid.NewString(), in)
	if err != nil {
		return core.Dividend{}, err
	}
	if err := s.store.AppendRow(ctx, s.sheet, rec.SheetRow()); err != nil {
		return core.Dividend{}, fmt.Errorf("append to %s: %w", s.sheet, err)
	}
	publishRowEvent(ctx, s.publisher, amqp.EventRowAppended, s.sheet, rec.ID)
	return rec, nil
}

// MonthlyIncomeSeries buckets a listing by month of year for the
// dividends page chart.
func (s *DividendService) MonthlyIncomeSeries(divs []core.Dividend) core.MonthlySeries {
	return core.BuildMonthlyDividends(divs)
}

// Analysis returns dividend income bucketed by year or by month,
// optionally narrowed to one asset name.
func (s *DividendService) Analysis(ctx context.Context, mode core.AnalysisMode, name string) (core.Series, error) {
	divs, err := s.List(ctx, name, 0)
	if err != nil {
		return core.Series{}, err
	}
	return core.BuildDividendAnalysis(divs, mode), nil
}

// TotalDividends sums dividend income for a year; year 0 sums
// everything.
func (s *DividendService) TotalDividends(ctx context.Context, year int) (float64, error) {
	divs, err := s.List(ctx, "", year)
	if err != nil {
		return 0, err
	}
	return core.SumDividends(divs), nil
}

// MonthlyAverage spreads the year's dividend income across twelve
// months.
func (s *DividendService) MonthlyAverage(ctx context.Context, year int) (float64, error) {
	total, err := s.TotalDividends(ctx, year)
	if err != nil {
		return 0, err
	}
	return core.MonthlyDividendAverage(total), nil
}
