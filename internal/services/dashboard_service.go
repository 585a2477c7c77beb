package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"folio/internal/core"
	"folio/internal/sheets"
)

// DashboardService assembles the aggregated views: the yearly overview
// and the average-cost snapshot.
type DashboardService struct {
	store           sheets.RowStore
	assetSheet      string
	investmentSheet string
	settingsSheet   string
}

func NewDashboardService(store sheets.RowStore, assetSheet, investmentSheet, settingsSheet string) *DashboardService {
	return &DashboardService{
		store:           store,
		assetSheet:      assetSheet,
		investmentSheet: investmentSheet,
		settingsSheet:   settingsSheet,
	}
}

// Overview runs the full dashboard aggregation for one year. The three
// worksheets are fetched concurrently; the first failure cancels the
// rest and surfaces to the handler, which owns the degrade-to-zero
// fallback.
func (s *DashboardService) Overview(ctx context.Context, year int) (core.Overview, error) {
	var (
		snapRows []core.Row
		txRows   []core.Row
		grid     [][]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if snapRows, err = s.store.ReadRows(gctx, s.assetSheet); err != nil {
			return fmt.Errorf("read %s: %w", s.assetSheet, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if txRows, err = s.store.ReadRows(gctx, s.investmentSheet); err != nil {
			return fmt.Errorf("read %s: %w", s.investmentSheet, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if grid, err = s.store.ReadGrid(gctx, s.settingsSheet); err != nil {
			return fmt.Errorf("read %s: %w", s.settingsSheet, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Overview{}, err
	}

	settings := core.ParseSettingsGrid(grid, true)
	// The year scope is the range fold's job: a fail-closed year filter
	// at the loader would also drop the undated flows the headline total
	// counts.
	snaps := core.LoadAssetSnapshots(snapRows, core.Filter{})
	txs := core.LoadTransactions(txRows, core.Filter{})
	return core.BuildOverview(snaps, txs, settings, core.YearRange(year)), nil
}

// DCA assembles the average-cost snapshot, optionally narrowed to one
// asset. Transactions the engine skips are reported here; the fold
// itself stays pure.
func (s *DashboardService) DCA(ctx context.Context, assetFilter string) (core.DCASnapshot, error) {
	var (
		txRows []core.Row
		grid   [][]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if txRows, err = s.store.ReadRows(gctx, s.investmentSheet); err != nil {
			return fmt.Errorf("read %s: %w", s.investmentSheet, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if grid, err = s.store.ReadGrid(gctx, s.settingsSheet); err != nil {
			return fmt.Errorf("read %s: %w", s.settingsSheet, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.DCASnapshot{}, err
	}

	settings := core.ParseSettingsGrid(grid, true)
	txs := core.LoadTransactions(txRows, core.Filter{})
	snap, skipped := core.BuildDCASnapshot(txs, settings.ActiveAssetNames(), assetFilter, time.Now().Year())
	for _, t := range skipped {
		slog.WarnContext(ctx, "Skipping malformed transaction in average-cost fold",
			"id", t.ID,
			"asset", t.Name,
			"date", t.Date,
			"qty", t.Qty,
			"price", t.Price)
	}
	return snap, nil
}
