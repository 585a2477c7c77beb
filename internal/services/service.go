// Package services orchestrates the record workflows between the row
// store, the core aggregations and the optional sync pipeline.
package services

import (
	"context"
	"log/slog"

	"folio/internal/amqp"
	"folio/internal/sheets"
)

// SyncPublisher publishes row change events after successful local
// writes. *amqp.Client implements it; backends without a sync pipeline
// run without one.
type SyncPublisher interface {
	PublishRowEvent(ctx context.Context, event *amqp.RowEvent) error
}

// publishRowEvent reports a local write to the sync pipeline. A nil
// publisher means sync is disabled. Publish failures are logged and
// swallowed: the local write already succeeded and must not fail on
// queue trouble.
func publishRowEvent(ctx context.Context, pub SyncPublisher, event amqp.EventType, sheet, recordID string) {
	if pub == nil {
		return
	}
	if err := pub.PublishRowEvent(ctx, amqp.NewRowEvent(event, sheet, recordID)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync event",
			"event", string(event),
			"sheet", sheet,
			"record_id", recordID,
			"error", err)
	}
}

// columnUpdates turns a full sheet row into per-cell updates for columns
// B onward, leaving the id in column A untouched.
func columnUpdates(row int, values []any) []sheets.CellUpdate {
	updates := make([]sheets.CellUpdate, 0, len(values)-1)
	for col := 2; col <= len(values); col++ {
		updates = append(updates, sheets.CellUpdate{Row: row, Col: col, Value: values[col-1]})
	}
	return updates
}
