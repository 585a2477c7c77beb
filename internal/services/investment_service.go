package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"folio/internal/amqp"
	"folio/internal/core"
	"folio/internal/sheets"
)

// InvestmentService manages the investment transaction worksheet.
type InvestmentService struct {
	store     sheets.RowStore
	sheet     string
	publisher SyncPublisher
}

func NewInvestmentService(store sheets.RowStore, sheet string, publisher SyncPublisher) *InvestmentService {
	return &InvestmentService{
		store:     store,
		sheet:     sheet,
		publisher: publisher,
	}
}

// List returns the filtered transaction listing, newest first.
func (s *InvestmentService) List(ctx context.Context, f core.Filter) ([]core.Transaction, error) {
	rows, err := s.store.ReadRows(ctx, s.sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.sheet, err)
	}
	return core.LoadTransactions(rows, f), nil
}

// Add validates and appends one transaction, then reports it to the sync
// pipeline.
func (s *InvestmentService) Add(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	rec, err := core.NewTransaction(uuid.NewString(), in)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := s.store.AppendRow(ctx, s.sheet, rec.SheetRow()); err != nil {
		return core.Transaction{}, fmt.Errorf("append to %s: %w", s.sheet, err)
	}
	publishRowEvent(ctx, s.publisher, amqp.EventRowAppended, s.sheet, rec.ID)
	return rec, nil
}

// AddBulk validates every input before writing anything, then appends the
// batch in a single store write.
func (s *InvestmentService) AddBulk(ctx context.Context, ins []core.TransactionInput) ([]core.Transaction, error) {
	recs := make([]core.Transaction, 0, len(ins))
	rows := make([][]any, 0, len(ins))
	for i, in := range ins {
		rec, err := core.NewTransaction(uuid.NewString(), in)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		recs = append(recs, rec)
		rows = append(rows, rec.SheetRow())
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if err := s.store.AppendRows(ctx, s.sheet, rows); err != nil {
		return nil, fmt.Errorf("append to %s: %w", s.sheet, err)
	}
	for _, rec := range recs {
		publishRowEvent(ctx, s.publisher, amqp.EventRowAppended, s.sheet, rec.ID)
	}
	return recs, nil
}

// Update rewrites the row holding id, leaving the id cell untouched.
func (s *InvestmentService) Update(ctx context.Context, id string, in core.TransactionInput) (core.Transaction, error) {
	rec, err := core.NewTransaction(id, in)
	if err != nil {
		return core.Transaction{}, err
	}
	row, err := s.store.FindRow(ctx, s.sheet, rec.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("find transaction %s: %w", rec.ID, err)
	}
	if err := s.store.BatchUpdate(ctx, s.sheet, columnUpdates(row, rec.SheetRow())); err != nil {
		return core.Transaction{}, fmt.Errorf("update %s row %d: %w", s.sheet, row, err)
	}
	publishRowEvent(ctx, s.publisher, amqp.EventRowUpdated, s.sheet, rec.ID)
	return rec, nil
}

// Delete removes the row holding id entirely.
func (s *InvestmentService) Delete(ctx context.Context, id string) error {
	row, err := s.store.FindRow(ctx, s.sheet, id)
	if err != nil {
		return fmt.Errorf("find transaction %s: %w", id, err)
	}
	if err := s.store.DeleteRow(ctx, s.sheet, row); err != nil {
		return fmt.Errorf("delete %s row %d: %w", s.sheet, row, err)
	}
	publishRowEvent(ctx, s.publisher, amqp.EventRowDeleted, s.sheet, id)
	return nil
}

// ChartSeries turns a listing into the monthly cash-flow chart of the
// investments page.
func (s *InvestmentService) ChartSeries(txs []core.Transaction) core.InvestmentFlowChart {
	return core.BuildInvestmentFlows(txs)
}
