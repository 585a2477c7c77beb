// Package worker replays row events from the local worksheet mirror into
// the Google spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"folio/internal/amqp"
	"folio/internal/sheets"
)

// SyncWorker applies row events to the spreadsheet. Events carry only the
// record id; the worker re-reads the record's current cells from the
// mirror, so a delayed event can never replay stale data.
type SyncWorker struct {
	mirror sheets.RowStore
	target sheets.RowStore
}

func NewSyncWorker(mirror, target sheets.RowStore) *SyncWorker {
	return &SyncWorker{
		mirror: mirror,
		target: target,
	}
}

// HandleRowEvent processes one sync event. A nil return acks the message;
// an error sends it back onto the queue for another attempt.
func (w *SyncWorker) HandleRowEvent(ctx context.Context, event *amqp.RowEvent) error {
	slog.InfoContext(ctx, "Processing sync event",
		"event", event.Event,
		"sheet", event.Sheet,
		"record_id", event.RecordID)

	switch event.Event {
	case amqp.EventRowAppended, amqp.EventRowUpdated:
		return w.upsertRecord(ctx, event.Sheet, event.RecordID)
	case amqp.EventRowDeleted:
		return w.deleteRecord(ctx, event.Sheet, event.RecordID)
	default:
		// Retrying cannot fix an event type this worker does not know.
		slog.WarnContext(ctx, "Dropping sync event of unknown type",
			"event", event.Event,
			"sheet", event.Sheet,
			"record_id", event.RecordID)
		return nil
	}
}

// Resync pushes every mirror row of the given worksheets into the
// spreadsheet. It recovers appends and updates missed while the worker
// was down; rows deleted while offline are left to their queued delete
// events. Per-row failures are logged and counted, not fatal.
func (w *SyncWorker) Resync(ctx context.Context, worksheets []string) error {
	for _, sheet := range worksheets {
		grid, err := w.mirror.ReadGrid(ctx, sheet)
		if err != nil {
			return fmt.Errorf("read mirror %s: %w", sheet, err)
		}
		if len(grid) <= 1 {
			continue
		}

		synced := 0
		failed := 0
		for _, cells := range grid[1:] {
			if len(cells) == 0 || strings.TrimSpace(cells[0]) == "" {
				continue
			}
			id := strings.TrimSpace(cells[0])
			if err := w.upsertCells(ctx, sheet, id, toValues(cells)); err != nil {
				slog.ErrorContext(ctx, "Failed to resync row",
					"sheet", sheet,
					"record_id", id,
					"error", err)
				failed++
				continue
			}
			synced++
		}
		slog.InfoContext(ctx, "Worksheet resynced",
			"sheet", sheet,
			"synced", synced,
			"failed", failed)
	}
	return nil
}

func (w *SyncWorker) upsertRecord(ctx context.Context, sheet, recordID string) error {
	cells, ok, err := w.mirrorCells(ctx, sheet, recordID)
	if err != nil {
		return err
	}
	if !ok {
		// The record was removed after this event was queued; the delete
		// carries its own event.
		slog.InfoContext(ctx, "Record no longer in the mirror, skipping",
			"sheet", sheet,
			"record_id", recordID)
		return nil
	}

	if err := w.upsertCells(ctx, sheet, recordID, cells); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Row replayed to spreadsheet",
		"sheet", sheet,
		"record_id", recordID)
	return nil
}

// upsertCells writes the record's current cells into the spreadsheet:
// the row keyed by the id is rewritten in place when it exists, appended
// otherwise. Replaying an append twice therefore cannot duplicate a row.
func (w *SyncWorker) upsertCells(ctx context.Context, sheet, recordID string, cells []any) error {
	row, err := w.target.FindRow(ctx, sheet, recordID)
	switch {
	case errors.Is(err, sheets.ErrRowNotFound):
		if err := w.target.AppendRow(ctx, sheet, cells); err != nil {
			return fmt.Errorf("append row to %s: %w", sheet, err)
		}
	case err != nil:
		return fmt.Errorf("find row in %s: %w", sheet, err)
	default:
		updates := make([]sheets.CellUpdate, 0, len(cells))
		for i, v := range cells {
			updates = append(updates, sheets.CellUpdate{Row: row, Col: i + 1, Value: v})
		}
		if err := w.target.BatchUpdate(ctx, sheet, updates); err != nil {
			return fmt.Errorf("update row %d in %s: %w", row, sheet, err)
		}
	}
	return nil
}

func (w *SyncWorker) deleteRecord(ctx context.Context, sheet, recordID string) error {
	row, err := w.target.FindRow(ctx, sheet, recordID)
	if errors.Is(err, sheets.ErrRowNotFound) {
		slog.InfoContext(ctx, "Record already absent from the spreadsheet, skipping",
			"sheet", sheet,
			"record_id", recordID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("find row in %s: %w", sheet, err)
	}
	if err := w.target.DeleteRow(ctx, sheet, row); err != nil {
		return fmt.Errorf("delete row %d from %s: %w", row, sheet, err)
	}
	slog.InfoContext(ctx, "Row deleted from spreadsheet",
		"sheet", sheet,
		"record_id", recordID)
	return nil
}

// mirrorCells fetches the record's current row from the mirror. ok is
// false when the record is gone.
func (w *SyncWorker) mirrorCells(ctx context.Context, sheet, recordID string) ([]any, bool, error) {
	row, err := w.mirror.FindRow(ctx, sheet, recordID)
	if errors.Is(err, sheets.ErrRowNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find row in mirror %s: %w", sheet, err)
	}
	grid, err := w.mirror.ReadGrid(ctx, sheet)
	if err != nil {
		return nil, false, fmt.Errorf("read mirror %s: %w", sheet, err)
	}
	if row > len(grid) {
		return nil, false, nil
	}
	return toValues(grid[row-1]), true, nil
}

func toValues(cells []string) []any {
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return values
}
