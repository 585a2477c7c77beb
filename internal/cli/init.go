// Package cli implements the worksheet bootstrap behind folio-init: it
// seeds header rows on empty worksheets and reports layout drift on
// populated ones.
package cli

import (
	"context"
	"fmt"
	"strings"

	"folio/internal/sheets"
)

// Worksheet pairs a worksheet title with its expected header row.
type Worksheet struct {
	Name    string
	Headers []string
}

// SheetStatus describes one worksheet after a bootstrap pass.
type SheetStatus struct {
	Sheet   string
	Created bool     // header row appended by this run
	Rows    int      // data rows found below the header
	Drift   []string // expected cells that differ from what the sheet holds
}

// Ready reports whether the worksheet matches the expected layout.
func (s SheetStatus) Ready() bool {
	return len(s.Drift) == 0
}

// EnsureWorksheets walks the expected worksheets in order and appends a
// header row wherever one is missing. Existing headers are compared cell
// by cell, so a hand-renamed column surfaces as drift instead of silently
// shifting every record behind it.
func EnsureWorksheets(ctx context.Context, store sheets.RowStore, worksheets []Worksheet) ([]SheetStatus, error) {
	statuses := make([]SheetStatus, 0, len(worksheets))
	for _, ws := range worksheets {
		status, err := ensureWorksheet(ctx, store, ws)
		if err != nil {
			return statuses, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func ensureWorksheet(ctx context.Context, store sheets.RowStore, ws Worksheet) (SheetStatus, error) {
	status := SheetStatus{Sheet: ws.Name}

	grid, err := store.ReadGrid(ctx, ws.Name)
	if err != nil {
		return status, fmt.Errorf("read %s: %w", ws.Name, err)
	}

	if len(grid) == 0 {
		row := make([]any, len(ws.Headers))
		for i, h := range ws.Headers {
			row[i] = h
		}
		if err := store.AppendRow(ctx, ws.Name, row); err != nil {
			return status, fmt.Errorf("seed headers for %s: %w", ws.Name, err)
		}
		status.Created = true
		return status, nil
	}

	status.Rows = len(grid) - 1
	status.Drift = headerDrift(ws.Headers, grid[0])
	return status, nil
}

// headerDrift lists the expected cells the first row does not match.
// Extra columns to the right are left alone; people park notes there.
func headerDrift(want []string, got []string) []string {
	var drift []string
	for i, header := range want {
		var cell string
		if i < len(got) {
			cell = strings.TrimSpace(got[i])
		}
		if !strings.EqualFold(cell, header) {
			drift = append(drift, fmt.Sprintf("%s (got %q)", header, cell))
		}
	}
	return drift
}
