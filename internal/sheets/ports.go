package sheets

import (
	"context"
	"errors"

	"folio/internal/core"
)

// ErrRowNotFound is returned by FindRow when no row carries the id.
var ErrRowNotFound = errors.New("row not found")

// CellUpdate addresses one cell write. Row and Col are 1-based, matching
// spreadsheet coordinates.
type CellUpdate struct {
	Row   int
	Col   int
	Value any
}

// Ports for outbound adapters. A worksheet is a named grid whose first
// row is the header; records are rows keyed by those headers.
type (
	RowReader interface {
		// ReadRows returns header-keyed records. Every header key is
		// present in every record; absent cells read as empty strings.
		ReadRows(ctx context.Context, sheet string) ([]core.Row, error)
		// ReadGrid returns the raw cell grid, header row included, for
		// worksheets addressed by position instead of by header.
		ReadGrid(ctx context.Context, sheet string) ([][]string, error)
	}

	RowAppender interface {
		AppendRow(ctx context.Context, sheet string, row []any) error
		// AppendRows appends the batch in one write so a bulk import
		// cannot land half-done between rows.
		AppendRows(ctx context.Context, sheet string, rows [][]any) error
	}

	RowEditor interface {
		// FindRow locates the 1-based row whose first column equals id.
		FindRow(ctx context.Context, sheet, id string) (int, error)
		UpdateCell(ctx context.Context, sheet string, row, col int, value any) error
		BatchUpdate(ctx context.Context, sheet string, updates []CellUpdate) error
		// DeleteRow removes the row entirely; rows below shift up.
		DeleteRow(ctx context.Context, sheet string, row int) error
	}

	// RowStore is the full worksheet surface the services build on.
	RowStore interface {
		RowReader
		RowAppender
		RowEditor
	}
)
