//go:build integration

package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	ports "folio/internal/sheets"
)

// Integration tests require real Google Sheets credentials and a scratch
// worksheet they may freely write to (FOLIO_TEST_SHEET_NAME, default "Test").
// Run with: go test -tags=integration ./internal/sheets/google

func testSheetName() string {
	if name := os.Getenv("FOLIO_TEST_SHEET_NAME"); name != "" {
		return name
	}
	return "Test"
}

func TestIntegration_RowStoreFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if os.Getenv("GOOGLE_SPREADSHEET_ID") == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}

	ctx := context.Background()
	client, err := NewFromEnv(ctx)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	sheet := testSheetName()
	id := fmt.Sprintf("it-%d", time.Now().UnixNano())

	t.Run("AppendAndFind", func(t *testing.T) {
		if err := client.AppendRow(ctx, sheet, []any{id, "2024-01-15", 100.0, "Integration", "Test"}); err != nil {
			t.Fatalf("Failed to append row: %v", err)
		}

		rowNum, err := client.FindRow(ctx, sheet, id)
		if err != nil {
			t.Fatalf("Failed to find appended row: %v", err)
		}
		if rowNum < 2 {
			t.Errorf("Expected data row below header, got row %d", rowNum)
		}
		t.Logf("Appended row %s at row %d", id, rowNum)
	})

	t.Run("UpdateAndRead", func(t *testing.T) {
		rowNum, err := client.FindRow(ctx, sheet, id)
		if err != nil {
			t.Fatalf("Failed to find row: %v", err)
		}

		updates := []ports.CellUpdate{
			{Row: rowNum, Col: 3, Value: 250.5},
			{Row: rowNum, Col: 4, Value: "Updated"},
		}
		if err := client.BatchUpdate(ctx, sheet, updates); err != nil {
			t.Fatalf("Failed to batch update: %v", err)
		}

		grid, err := client.ReadGrid(ctx, sheet)
		if err != nil {
			t.Fatalf("Failed to read grid: %v", err)
		}
		if rowNum > len(grid) {
			t.Fatalf("Updated row %d missing from grid of %d rows", rowNum, len(grid))
		}
		row := grid[rowNum-1]
		if len(row) < 4 || row[3] != "Updated" {
			t.Errorf("Expected updated cell, got row %v", row)
		}
	})

	t.Run("DeleteRow", func(t *testing.T) {
		rowNum, err := client.FindRow(ctx, sheet, id)
		if err != nil {
			t.Fatalf("Failed to find row: %v", err)
		}

		if err := client.DeleteRow(ctx, sheet, rowNum); err != nil {
			t.Fatalf("Failed to delete row: %v", err)
		}

		if _, err := client.FindRow(ctx, sheet, id); !errors.Is(err, ports.ErrRowNotFound) {
			t.Errorf("Expected ErrRowNotFound after delete, got: %v", err)
		}
	})
}

func TestIntegration_ContextCancellation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if os.Getenv("GOOGLE_SPREADSHEET_ID") == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set")
	}

	client, err := NewFromEnv(context.Background())
	if err != nil {
		t.Skip("Cannot create client, skipping context test")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.ReadRows(ctx, testSheetName()); err == nil {
		t.Error("Expected context cancellation error")
	}
	if _, err := client.FindRow(ctx, testSheetName(), "any"); err == nil {
		t.Error("Expected context cancellation error")
	}
}

func TestIntegration_InvalidSpreadsheetID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	origID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	defer os.Setenv("GOOGLE_SPREADSHEET_ID", origID)
	os.Setenv("GOOGLE_SPREADSHEET_ID", "invalid-spreadsheet-id")

	client, err := NewFromEnv(context.Background())
	if err != nil {
		t.Skip("Cannot create client, skipping error handling test")
	}

	if _, err := client.ReadRows(context.Background(), testSheetName()); err == nil {
		t.Error("Expected error with invalid spreadsheet ID")
	}
}
