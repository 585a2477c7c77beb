package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"folio/internal/amqp"
	"folio/internal/core"
	"folio/internal/sheets"
)

// AssetService manages the asset snapshot worksheet.
type AssetService struct {
	store     sheets.RowStore
	sheet     string
	publisher SyncPublisher
}

func NewAssetService(store sheets.RowStore, sheet string, publisher SyncPublisher) *AssetService {
	return &AssetService{
		store:     store,
		sheet:     sheet,
		publisher: publisher,
	}
}

// List returns the filtered snapshot listing, newest first.
func (s *AssetService) List(ctx context.Context, f core.Filter) ([]core.AssetSnapshot, error) {
	rows, err := s.store.ReadRows(ctx, s.sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.sheet, err)
	}
	return core.LoadAssetSnapshots(rows, f), nil
}

// Add validates and appends one snapshot, then reports it to the sync
// pipeline.
func (s *AssetService) Add(ctx context.Context, in core.AssetInput) (core.AssetSnapshot, error) {
	rec, err := core.NewAssetSnapshot(uuid.NewString(), in)
	if err != nil {
		return core.AssetSnapshot{}, err
	}
	if err := s.store.AppendRow(ctx, s.sheet, rec.SheetRow()); err != nil {
		return core.AssetSnapshot{}, fmt.Errorf("append to %s: %w", s.sheet, err)
	}
	publishRowEvent(ctx, s.publisher, amqp.EventRowAppended, s.sheet, rec.ID)
	return rec, nil
}

// AddBulk validates every input before writing anything, then appends the
// batch in a single store write so a bad row cannot leave a half-imported
// batch behind.
func (s *AssetService) AddBulk(ctx context.Context, ins []core.AssetInput) ([]core.AssetSnapshot, error) {
	recs := make([]core.AssetSnapshot, 0, len(ins))
	rows := make([][]any, 0, len(ins))
	for i, in := range ins {
		rec, err := core.NewAssetSnapshot(uuid.NewString(), in)
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
func (s *AssetService) Update(ctx context.Context, id string, in core.AssetInput) (core.AssetSnapshot, error) {
	rec, err := core.NewAssetSnapshot(id, in)
	if err != nil {
		return core.AssetSnapshot{}, err
	}
	row, err := s.store.FindRow(ctx, s.sheet, rec.ID)
	if err != nil {
		return core.AssetSnapshot{}, fmt.Errorf("find asset %s: %w", rec.ID, err)
	}
	if err := s.store.BatchUpdate(ctx, s.sheet, columnUpdates(row, rec.SheetRow())); err != nil {
		return core.AssetSnapshot{}, fmt.Errorf("update %s row %d: %w", s.sheet, row, err)
	}
	publishRowEvent(ctx, s.publisher, amqp.EventRowUpdated, s.sheet, rec.ID)
	return rec, nil
}

// Delete removes the row holding id entirely.
func (s *AssetService) Delete(ctx context.Context, id string) error {
	row, err := s.store.FindRow(ctx, s.sheet, id)
	if err != nil {
		return fmt.Errorf("find asset %s: %w", id, err)
	}
	if err := s.store.DeleteRow(ctx, s.sheet, row); err != nil {
		return fmt.Errorf("delete %s row %d: %w", s.sheet, row, err)
	}
	publishRowEvent(ctx, s.publisher, amqp.EventRowDeleted, s.sheet, id)
	return nil
}

// LatestTotalValue sums each asset's most recent snapshot.
func (s *AssetService) LatestTotalValue(ctx context.Context) (float64, error) {
	snaps, err := s.List(ctx, core.Filter{})
	if err != nil {
		return 0, err
	}
	return core.LatestPortfolioValue(snaps), nil
}

// ChartSeries turns a listing into the per-asset monthly lines of the
// assets page.
func (s *AssetService) ChartSeries(snaps []core.AssetSnapshot) []core.AssetLine {
	return core.BuildAssetLines(snaps)
}
