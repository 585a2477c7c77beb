package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"folio/internal/core"
	ports "folio/internal/sheets"

	_ "modernc.org/sqlite"
)

// SQLiteStore mirrors spreadsheet grids in a local database. Each worksheet
// is a set of numbered rows whose cells are stored as a JSON array, so the
// row numbers a caller sees here match what the same operations would
// produce on the real spreadsheet.
type SQLiteStore struct {
	db *sql.DB
}

var _ ports.RowStore = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// EnsureHeaders writes the header row for a worksheet that has no rows yet.
// A fresh mirror starts empty, and without a header row the first appended
// record would be misread as the header.
func (s *SQLiteStore) EnsureHeaders(ctx context.Context, sheet string, headers []string) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sheet_rows WHERE sheet = ?`, sheet).Scan(&count)
	if err != nil {
		return fmt.Errorf("count rows of %s: %w", sheet, err)
	}
	if count > 0 {
		return nil
	}

	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	return s.AppendRow(ctx, sheet, row)
}

func (s *SQLiteStore) ReadRows(ctx context.Context, sheet string) ([]core.Row, error) {
	grid, err := s.readCells(ctx, sheet)
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return []core.Row{}, nil
	}

	headers := make([]string, len(grid[0]))
	for i, cell := range grid[0] {
		if cell != nil {
			headers[i] = strings.TrimSpace(fmt.Sprint(cell))
		}
	}

	records := make([]core.Row, 0, len(grid)-1)
	for _, row := range grid[1:] {
		rec := make(core.Row, len(headers))
		for i, name := range headers {
			if name == "" {
				continue
			}
			if i < len(row) && row[i] != nil {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *SQLiteStore) ReadGrid(ctx context.Context, sheet string) ([][]string, error) {
	cells, err := s.readCells(ctx, sheet)
	if err != nil {
		return nil, err
	}
	grid := make([][]string, 0, len(cells))
	for _, row := range cells {
		out := make([]string, len(row))
		for i, cell := range row {
			if cell == nil {
				continue
			}
			out[i] = strings.TrimSpace(fmt.Sprint(cell))
		}
		grid = append(grid, out)
	}
	return grid, nil
}

// readCells returns the worksheet in row order. JSON numbers decode as
// float64, which is how the record loaders expect numeric cells.
func (s *SQLiteStore) readCells(ctx context.Context, sheet string) ([][]any, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY row_num`, sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheet, err)
	}
	defer rows.Close()

	var grid [][]any
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan row of %s: %w", sheet, err)
		}
		var cells []any
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("decode row of %s: %w", sheet, err)
		}
		grid = append(grid, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", sheet, err)
	}
	return grid, nil
}

func (s *SQLiteStore) AppendRow(ctx context.Context, sheet string, row []any) error {
	return s.AppendRows(ctx, sheet, [][]any{row})
}

func (s *SQLiteStore) AppendRows(ctx context.Context, sheet string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	next, err := nextRowNum(ctx, tx, sheet)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := insertRow(ctx, tx, sheet, next, row); err != nil {
			return err
		}
		next++
	}
	return tx.Commit()
}

// FindRow scans the first cell of each row for the id and returns its
// 1-based row number.
func (s *SQLiteStore) FindRow(ctx context.Context, sheet, id string) (int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT row_num, cells FROM sheet_rows WHERE sheet = ? ORDER BY row_num`, sheet)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", sheet, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rowNum int
		var raw string
		if err := rows.Scan(&rowNum, &raw); err != nil {
			return 0, fmt.Errorf("scan row of %s: %w", sheet, err)
		}
		var cells []any
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return 0, fmt.Errorf("decode row of %s: %w", sheet, err)
		}
		if len(cells) == 0 || cells[0] == nil {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(cells[0])) == id {
			return rowNum, nil
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("read %s: %w", sheet, err)
	}
	return 0, ports.ErrRowNotFound
}

func (s *SQLiteStore) UpdateCell(ctx context.Context, sheet string, row, col int, value any) error {
	return s.BatchUpdate(ctx, sheet, []ports.CellUpdate{{Row: row, Col: col, Value: value}})
}

// BatchUpdate applies all cell writes in one transaction. Rows that do not
// exist yet are created empty first, the way a spreadsheet materializes
// cells written below the current data.
func (s *SQLiteStore) BatchUpdate(ctx context.Context, sheet string, updates []ports.CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	for _, u := range updates {
		if u.Row < 1 || u.Col < 1 {
			return fmt.Errorf("invalid cell position row=%d col=%d", u.Row, u.Col)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	for _, u := range updates {
		if err := updateCellTx(ctx, tx, sheet, u); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteRow removes a row and renumbers the rows below it, mirroring how
// a spreadsheet shifts rows up on deletion.
func (s *SQLiteStore) DeleteRow(ctx context.Context, sheet string, row int) error {
	if row < 1 {
		return fmt.Errorf("invalid row %d", row)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM sheet_rows WHERE sheet = ? AND row_num = ?`, sheet, row)
	if err != nil {
		return fmt.Errorf("delete row %d of %s: %w", row, sheet, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete row %d of %s: %w", row, sheet, ports.ErrRowNotFound)
	}

	// Negate first so the primary key never sees two rows with the same
	// number while the shift is in flight.
	if _, err := tx.ExecContext(ctx,
		`UPDATE sheet_rows SET row_num = -(row_num - 1) WHERE sheet = ? AND row_num > ?`,
		sheet, row); err != nil {
		return fmt.Errorf("renumber rows of %s: %w", sheet, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE sheet_rows SET row_num = -row_num WHERE sheet = ? AND row_num < 0`,
		sheet); err != nil {
		return fmt.Errorf("renumber rows of %s: %w", sheet, err)
	}
	return tx.Commit()
}

func nextRowNum(ctx context.Context, tx *sql.Tx, sheet string) (int, error) {
	var max sql.NullInt64
	err := tx.QueryRowContext(ctx,
		`SELECT MAX(row_num) FROM sheet_rows WHERE sheet = ?`, sheet).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("next row of %s: %w", sheet, err)
	}
	return int(max.Int64) + 1, nil
}

func insertRow(ctx context.Context, tx *sql.Tx, sheet string, rowNum int, cells []any) error {
	if cells == nil {
		cells = []any{}
	}
	raw, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sheet_rows (sheet, row_num, cells) VALUES (?, ?, ?)`,
		sheet, rowNum, string(raw))
	if err != nil {
		return fmt.Errorf("insert row %d of %s: %w", rowNum, sheet, err)
	}
	return nil
}

func updateCellTx(ctx context.Context, tx *sql.Tx, sheet string, u ports.CellUpdate) error {
	var raw string
	err := tx.QueryRowContext(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = ? AND row_num = ?`,
		sheet, u.Row).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		next, nerr := nextRowNum(ctx, tx, sheet)
		if nerr != nil {
			return nerr
		}
		for ; next <= u.Row; next++ {
			if ierr := insertRow(ctx, tx, sheet, next, []any{}); ierr != nil {
				return ierr
			}
		}
		raw = "[]"
	case err != nil:
		return fmt.Errorf("read row %d of %s: %w", u.Row, sheet, err)
	}

	var cells []any
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		return fmt.Errorf("decode row %d of %s: %w", u.Row, sheet, err)
	}
	for len(cells) < u.Col {
		cells = append(cells, "")
	}
	cells[u.Col-1] = u.Value

	encoded, err := json.Marshal(cells)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE sheet_rows SET cells = ?, updated_at = CURRENT_TIMESTAMP WHERE sheet = ? AND row_num = ?`,
		string(encoded), sheet, u.Row)
	if err != nil {
		return fmt.Errorf("update row %d of %s: %w", u.Row, sheet, err)
	}
	return nil
}
