package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"folio/internal/core"
	ports "folio/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client talks to one spreadsheet. Worksheets are addressed by title on
// every call; numeric sheet ids are only needed for row deletion and are
// cached after the first metadata fetch.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64
}

// Ensure interface conformance
var _ ports.RowStore = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline service account credentials", "json_length", len(serviceAccountJSON))
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading service account credentials from file", "path", serviceAccountFile)
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created")
	return service, nil
}

// ReadRows fetches the worksheet and maps data rows onto the header row.
// Values come back formatted, the way the sheet displays them; the record
// loaders own the cleanup.
func (c *Client) ReadRows(ctx context.Context, sheet string) ([]core.Row, error) {
	values, err := c.readValues(ctx, sheet)
	if err != nil {
		return nil, err
	}
	return recordsFromGrid(values), nil
}

func (c *Client) ReadGrid(ctx context.Context, sheet string) ([][]string, error) {
	values, err := c.readValues(ctx, sheet)
	if err != nil {
		return nil, err
	}
	grid := make([][]string, 0, len(values))
	for _, row := range values {
		grid = append(grid, toStrings(row))
	}
	return grid, nil
}

func (c *Client) readValues(ctx context.Context, sheet string) ([][]any, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheet, err)
	}
	return resp.Values, nil
}

func (c *Client) AppendRow(ctx context.Context, sheet string, row []any) error {
	return c.AppendRows(ctx, sheet, [][]any{row})
}

func (c *Client) AppendRows(ctx context.Context, sheet string, rows [][]any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if len(rows) == 0 {
		return nil
	}
	vr := &gsheet.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, sheet, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", sheet, err)
	}
	return nil
}

// FindRow scans column A for the id and returns its 1-based row number.
func (c *Client) FindRow(ctx context.Context, sheet, id string) (int, error) {
	if c.svc == nil {
		return 0, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:A", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", rng, err)
	}
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i + 1, nil
		}
	}
	return 0, ports.ErrRowNotFound
}

func (c *Client) UpdateCell(ctx context.Context, sheet string, row, col int, value any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!%s%d", sheet, colName(col), row)
	vr := &gsheet.ValueRange{Values: [][]any{{value}}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

// BatchUpdate writes all cells in one request so a multi-column record
// edit cannot be torn by a failure halfway through.
func (c *Client) BatchUpdate(ctx context.Context, sheet string, updates []ports.CellUpdate) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if len(updates) == 0 {
		return nil
	}
	data := make([]*gsheet.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &gsheet.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d", sheet, colName(u.Col), u.Row),
			Values: [][]any{{u.Value}},
		})
	}
	req := &gsheet.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	_, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("batch update %s: %w", sheet, err)
	}
	return nil
}

// DeleteRow removes the whole row through a DeleteDimension request,
// which needs the worksheet's numeric id rather than its title.
func (c *Client) DeleteRow(ctx context.Context, sheet string, row int) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if row < 1 {
		return fmt.Errorf("invalid row %d", row)
	}
	sheetID, err := c.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d of %s: %w", row, sheet, err)
	}
	return nil
}

// sheetID resolves a worksheet title to its numeric id, fetching and
// caching the spreadsheet metadata on first use.
func (c *Client) sheetID(ctx context.Context, sheet string) (int64, error) {
	c.mu.Lock()
	id, ok := c.sheetIDs[sheet]
	c.mu.Unlock()
	if ok {
		return id, nil
	}

	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets(properties(sheetId,title))").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("spreadsheet metadata: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range meta.Sheets {
		if s.Properties != nil {
			c.sheetIDs[s.Properties.Title] = s.Properties.SheetId
		}
	}
	id, ok = c.sheetIDs[sheet]
	if !ok {
		return 0, fmt.Errorf("worksheet %q not found", sheet)
	}
	return id, nil
}
