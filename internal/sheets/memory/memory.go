package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"folio/internal/core"
	ports "folio/internal/sheets"
)

// Store keeps worksheets as in-memory grids, row 0 being the header. It
// backs demo mode and tests; nothing survives a restart.
type Store struct {
	mu    sync.Mutex
	grids map[string][][]any
}

var _ ports.RowStore = (*Store)(nil)

func New() *Store {
	return &Store{grids: make(map[string][][]any)}
}

// Seed replaces one worksheet with the given grid, header row included.
func (s *Store) Seed(sheet string, grid [][]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([][]any, 0, len(grid))
	for _, row := range grid {
		copied = append(copied, append([]any(nil), row...))
	}
	s.grids[sheet] = copied
}

func (s *Store) ReadRows(_ context.Context, sheet string) ([]core.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grid := s.grids[sheet]
	if len(grid) == 0 {
		return nil, nil
	}
	headers := cellStrings(grid[0])
	records := make([]core.Row, 0, len(grid)-1)
	for _, row := range grid[1:] {
		rec := make(core.Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) && row[i] != nil {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) ReadGrid(_ context.Context, sheet string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	grid := s.grids[sheet]
	out := make([][]string, 0, len(grid))
	for _, row := range grid {
		out = append(out, cellStrings(row))
	}
	return out, nil
}

func (s *Store) AppendRow(ctx context.Context, sheet string, row []any) error {
	return s.AppendRows(ctx, sheet, [][]any{row})
}

func (s *Store) AppendRows(_ context.Context, sheet string, rows [][]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.grids[sheet] = append(s.grids[sheet], append([]any(nil), row...))
	}
	return nil
}

func (s *Store) FindRow(_ context.Context, sheet, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, row := range s.grids[sheet] {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 1, nil
		}
	}
	return 0, ports.ErrRowNotFound
}

func (s *Store) UpdateCell(_ context.Context, sheet string, row, col int, value any) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell %d,%d", row, col)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	grid := s.grids[sheet]
	for len(grid) < row {
		grid = append(grid, nil)
	}
	r := grid[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = value
	grid[row-1] = r
	s.grids[sheet] = grid
	return nil
}

func (s *Store) BatchUpdate(ctx context.Context, sheet string, updates []ports.CellUpdate) error {
	for _, u := range updates {
		if err := s.UpdateCell(ctx, sheet, u.Row, u.Col, u.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) DeleteRow(_ context.Context, sheet string, row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	grid := s.grids[sheet]
	if row < 1 || row > len(grid) {
		return fmt.Errorf("row %d out of range for %s", row, sheet)
	}
	s.grids[sheet] = append(grid[:row-1], grid[row:]...)
	return nil
}

func cellStrings(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			continue
		}
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
