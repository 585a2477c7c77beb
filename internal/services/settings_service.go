package services

import (
	"context"
	"fmt"
	"strings"

	"folio/internal/core"
	"folio/internal/sheets"
)

// Setting kinds as they arrive from the settings form.
const (
	SettingCategory = "category"
	SettingAsset    = "asset"
)

// SettingsService manages the positional settings worksheet: columns A-C
// hold the allocation categories, columns D-E the asset names. The grid
// carries no record ids, so settings writes stay outside the sync
// pipeline.
type SettingsService struct {
	store sheets.RowStore
	sheet string
}

func NewSettingsService(store sheets.RowStore, sheet string) *SettingsService {
	return &SettingsService{
		store: store,
		sheet: sheet,
	}
}

// Get parses the settings grid. onlyActive drops switched-off entries.
func (s *SettingsService) Get(ctx context.Context, onlyActive bool) (core.Settings, error) {
	grid, err := s.store.ReadGrid(ctx, s.sheet)
	if err != nil {
		return core.Settings{}, fmt.Errorf("read %s: %w", s.sheet, err)
	}
	return core.ParseSettingsGrid(grid, onlyActive), nil
}

// Add writes a new entry into the first row below the header whose name
// cell is empty, past the end of the grid otherwise. New entries start
// active; categories start with a zero target.
func (s *SettingsService) Add(ctx context.Context, kind, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrMissingName
	}
	nameCol, flagCol, err := settingColumns(kind)
	if err != nil {
		return err
	}
	grid, err := s.store.ReadGrid(ctx, s.sheet)
	if err != nil {
		return fmt.Errorf("read %s: %w", s.sheet, err)
	}
	row := firstEmptyRow(grid, nameCol)
	updates := []sheets.CellUpdate{
		{Row: row, Col: nameCol, Value: name},
		{Row: row, Col: flagCol, Value: "TRUE"},
	}
	if kind == SettingCategory {
		updates = append(updates, sheets.CellUpdate{Row: row, Col: nameCol + 2, Value: 0})
	}
	if err := s.store.BatchUpdate(ctx, s.sheet, updates); err != nil {
		return fmt.Errorf("update %s: %w", s.sheet, err)
	}
	return nil
}

// Toggle flips the active flag on the entry matching name.
func (s *SettingsService) Toggle(ctx context.Context, kind, name string) error {
	nameCol, flagCol, err := settingColumns(kind)
	if err != nil {
		return err
	}
	grid, err := s.store.ReadGrid(ctx, s.sheet)
	if err != nil {
		return fmt.Errorf("read %s: %w", s.sheet, err)
	}
	row, active, err := findSettingRow(grid, nameCol, flagCol, name)
	if err != nil {
		return err
	}
	next := "TRUE"
	if active {
		next = "FALSE"
	}
	if err := s.store.UpdateCell(ctx, s.sheet, row, flagCol, next); err != nil {
		return fmt.Errorf("update %s: %w", s.sheet, err)
	}
	return nil
}

// UpdateTarget sets a category's target percentage.
func (s *SettingsService) UpdateTarget(ctx context.Context, name string, target float64) error {
	grid, err := s.store.ReadGrid(ctx, s.sheet)
	if err != nil {
		return fmt.Errorf("read %s: %w", s.sheet, err)
	}
	row, _, err := findSettingRow(grid, 1, 2, name)
	if err != nil {
		return err
	}
	if err := s.store.UpdateCell(ctx, s.sheet, row, 3, target); err != nil {
		return fmt.Errorf("update %s: %w", s.sheet, err)
	}
	return nil
}

// settingColumns maps a setting kind to its 1-based name and flag
// columns in the grid.
func settingColumns(kind string) (nameCol, flagCol int, err error) {
	switch kind {
	case SettingCategory:
		return 1, 2, nil
	case SettingAsset:
		return 4, 5, nil
	default:
		return 0, 0, fmt.Errorf("unknown setting type %q", kind)
	}
}

// firstEmptyRow finds the first row below the header whose cell in col is
// empty, or the row one past the grid when every cell is taken. An empty
// grid leaves row 1 free for the header.
func firstEmptyRow(grid [][]string, col int) int {
	for i := 1; i < len(grid); i++ {
		row := grid[i]
		if len(row) < col || strings.TrimSpace(row[col-1]) == "" {
			return i + 1
		}
	}
	if len(grid) == 0 {
		return 2
	}
	return len(grid) + 1
}

// findSettingRow locates the first row below the header whose name cell
// matches case-insensitively, returning its 1-based row and current
// active flag. A missing flag cell counts as active, same as the parser.
func findSettingRow(grid [][]string, nameCol, flagCol int, name string) (int, bool, error) {
	want := strings.TrimSpace(name)
	for i := 1; i < len(grid); i++ {
		row := grid[i]
		if len(row) < nameCol || !strings.EqualFold(strings.TrimSpace(row[nameCol-1]), want) {
			continue
		}
		active := true
		if len(row) >= flagCol {
			active = strings.EqualFold(strings.TrimSpace(row[flagCol-1]), "TRUE")
		}
		return i + 1, active, nil
	}
	return 0, false, fmt.Errorf("setting %q not found", name)
}
