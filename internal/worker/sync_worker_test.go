package worker

import (
	"context"
	"errors"
	"testing"

	"folio/internal/amqp"
	"folio/internal/core"
	"folio/internal/sheets"
	"folio/internal/sheets/memory"
)

const assetSheet = "Current Asset"

func headerRow(headers []string) []any {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	return row
}

// newStores seeds a mirror holding one record and an empty target.
func newStores() (*memory.Store, *memory.Store) {
	mirror := memory.New()
	mirror.Seed(assetSheet, [][]any{
		headerRow(core.AssetHeaders),
		{"a1", "2024-03-15", 1500.5, "BTC", "Crypto"},
	})
	target := memory.New()
	target.Seed(assetSheet, [][]any{headerRow(core.AssetHeaders)})
	return mirror, target
}

func targetGrid(t *testing.T, target *memory.Store) [][]string {
	t.Helper()
	grid, err := target.ReadGrid(context.Background(), assetSheet)
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	return grid
}

func TestHandleRowEvent_AppendReplays(t *testing.T) {
	mirror, target := newStores()
	w := NewSyncWorker(mirror, target)

	event := amqp.NewRowEvent(amqp.EventRowAppended, assetSheet, "a1")
	if err := w.HandleRowEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}

	grid := targetGrid(t, target)
	if len(grid) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(grid))
	}
	row := grid[1]
	if row[0] != "a1" || row[1] != "2024-03-15" || row[2] != "1500.5" || row[3] != "BTC" {
		t.Errorf("unexpected replayed row: %v", row)
	}
}

func TestHandleRowEvent_UpsertRefreshesExistingRow(t *testing.T) {
	for _, event := range []amqp.EventType{amqp.EventRowAppended, amqp.EventRowUpdated} {
		t.Run(string(event), func(t *testing.T) {
			mirror, target := newStores()
			// The target already carries the record with stale cells, as
			// after a redelivered append or an earlier sync.
			if err := target.AppendRow(context.Background(), assetSheet,
				[]any{"a1", "2024-01-01", 900.0, "BTC", "Crypto"}); err != nil {
				t.Fatalf("seed target: %v", err)
			}

			w := NewSyncWorker(mirror, target)
			if err := w.HandleRowEvent(context.Background(), amqp.NewRowEvent(event, assetSheet, "a1")); err != nil {
				t.Fatalf("handle: %v", err)
			}

			grid := targetGrid(t, target)
			if len(grid) != 2 {
				t.Fatalf("expected no duplicate row, got %d rows", len(grid))
			}
			if grid[1][1] != "2024-03-15" || grid[1][2] != "1500.5" {
				t.Errorf("row not refreshed: %v", grid[1])
			}
		})
	}
}

func TestHandleRowEvent_MissingFromMirrorSkips(t *testing.T) {
	mirror, target := newStores()
	w := NewSyncWorker(mirror, target)

	event := amqp.NewRowEvent(amqp.EventRowUpdated, assetSheet, "ghost")
	if err := w.HandleRowEvent(context.Background(), event); err != nil {
		t.Fatalf("expected skip, got %v", err)
	}
	if grid := targetGrid(t, target); len(grid) != 1 {
		t.Errorf("target must stay untouched, got %d rows", len(grid))
	}
}

func TestHandleRowEvent_Delete(t *testing.T) {
	mirror, target := newStores()
	if err := target.AppendRow(context.Background(), assetSheet,
		[]any{"a1", "2024-03-15", 1500.5, "BTC", "Crypto"}); err != nil {
		t.Fatalf("seed target: %v", err)
	}
	w := NewSyncWorker(mirror, target)

	event := amqp.NewRowEvent(amqp.EventRowDeleted, assetSheet, "a1")
	if err := w.HandleRowEvent(context.Background(), event); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if grid := targetGrid(t, target); len(grid) != 1 {
		t.Errorf("expected row gone, got %d rows", len(grid))
	}

	// A redelivered delete finds nothing and acks.
	if err := w.HandleRowEvent(context.Background(), event); err != nil {
		t.Errorf("expected skip on absent row, got %v", err)
	}
}

func TestHandleRowEvent_UnknownTypeDropped(t *testing.T) {
	mirror, target := newStores()
	w := NewSyncWorker(mirror, target)

	event := amqp.NewRowEvent(amqp.EventType("row_exploded"), assetSheet, "a1")
	if err := w.HandleRowEvent(context.Background(), event); err != nil {
		t.Errorf("unknown events must ack, got %v", err)
	}
}

var errStoreDown = errors.New("store down")

// failingStore errors on every operation.
type failingStore struct{}

var _ sheets.RowStore = failingStore{}

func (failingStore) ReadRows(context.Context, string) ([]core.Row, error) {
	return nil, errStoreDown
}
func (failingStore) ReadGrid(context.Context, string) ([][]string, error) {
	return nil, errStoreDown
}
func (failingStore) AppendRow(context.Context, string, []any) error    { return errStoreDown }
func (failingStore) AppendRows(context.Context, string, [][]any) error { return errStoreDown }
func (failingStore) FindRow(context.Context, string, string) (int, error) {
	return 0, errStoreDown
}
func (failingStore) UpdateCell(context.Context, string, int, int, any) error {
	return errStoreDown
}
func (failingStore) BatchUpdate(context.Context, string, []sheets.CellUpdate) error {
	return errStoreDown
}
func (failingStore) DeleteRow(context.Context, string, int) error { return errStoreDown }

func TestHandleRowEvent_TransientFailuresSurface(t *testing.T) {
	mirror, _ := newStores()

	// A failing spreadsheet must surface so the message is requeued.
	w := NewSyncWorker(mirror, failingStore{})
	event := amqp.NewRowEvent(amqp.EventRowAppended, assetSheet, "a1")
	if err := w.HandleRowEvent(context.Background(), event); !errors.Is(err, errStoreDown) {
		t.Errorf("expected store error, got %v", err)
	}
	if err := w.HandleRowEvent(context.Background(), amqp.NewRowEvent(amqp.EventRowDeleted, assetSheet, "a1")); !errors.Is(err, errStoreDown) {
		t.Errorf("expected store error, got %v", err)
	}

	// Same for a failing mirror read.
	w = NewSyncWorker(failingStore{}, memory.New())
	if err := w.HandleRowEvent(context.Background(), event); !errors.Is(err, errStoreDown) {
		t.Errorf("expected mirror error, got %v", err)
	}
}

func TestResync(t *testing.T) {
	mirror, target := newStores()
	ctx := context.Background()
	if err := mirror.AppendRow(ctx, assetSheet, []any{"a2", "2024-04-01", 500.0, "VWCE", "Stocks"}); err != nil {
		t.Fatalf("seed mirror: %v", err)
	}
	// a1 is already in the target with stale cells; a2 is missing.
	if err := target.AppendRow(ctx, assetSheet, []any{"a1", "2024-01-01", 900.0, "BTC", "Crypto"}); err != nil {
		t.Fatalf("seed target: %v", err)
	}

	w := NewSyncWorker(mirror, target)
	if err := w.Resync(ctx, []string{assetSheet}); err != nil {
		t.Fatalf("resync: %v", err)
	}

	grid := targetGrid(t, target)
	if len(grid) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(grid))
	}
	if grid[1][1] != "2024-03-15" {
		t.Errorf("stale row not refreshed: %v", grid[1])
	}
	if grid[2][0] != "a2" || grid[2][3] != "VWCE" {
		t.Errorf("missing row not appended: %v", grid[2])
	}

	// Running it again changes nothing.
	if err := w.Resync(ctx, []string{assetSheet}); err != nil {
		t.Fatalf("resync: %v", err)
	}
	if grid := targetGrid(t, target); len(grid) != 3 {
		t.Errorf("resync must be idempotent, got %d rows", len(grid))
	}
}

func TestResync_RowFailuresAreNotFatal(t *testing.T) {
	mirror, _ := newStores()
	w := NewSyncWorker(mirror, failingStore{})

	if err := w.Resync(context.Background(), []string{assetSheet}); err != nil {
		t.Errorf("per-row failures must not abort the pass, got %v", err)
	}

	w = NewSyncWorker(failingStore{}, memory.New())
	if err := w.Resync(context.Background(), []string{assetSheet}); !errors.Is(err, errStoreDown) {
		t.Errorf("expected mirror error, got %v", err)
	}
}
