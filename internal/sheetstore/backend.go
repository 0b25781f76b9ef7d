package sheetstore

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Backend is the narrow spreadsheet surface the store and schema manager
// operate on. Row indices are 1-based sheet coordinates, matching how the
// Sheets UI numbers rows.
type Backend interface {
	SheetTitles(ctx context.Context) ([]string, error)
	CreateSheet(ctx context.Context, title string, columnCount int64) error
	Rows(ctx context.Context, title string) ([][]string, error)
	AppendRow(ctx context.Context, title string, row []string) error
	UpdateRow(ctx context.Context, title string, rowIndex int64, row []string) error
	DeleteRow(ctx context.Context, title string, rowIndex int64) error
	Clear(ctx context.Context, title string) error
	FormatHeader(ctx context.Context, title string) error
}

// GoogleBackend implements Backend against a single Google spreadsheet.
type GoogleBackend struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewGoogleBackend builds a Sheets client from service account
// credentials JSON scoped to spreadsheet access.
func NewGoogleBackend(ctx context.Context, spreadsheetID string, credentialsJSON []byte) (*GoogleBackend, error) {
	conf, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleBackend{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

func (b *GoogleBackend) SheetTitles(ctx context.Context) ([]string, error) {
	spreadsheet, err := b.service.Spreadsheets.Get(b.spreadsheetID).
		Fields(googleapi.Field("sheets.properties")).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet metadata: %w", err)
	}

	titles := make([]string, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		titles = append(titles, sheet.Properties.Title)
	}
	return titles, nil
}

func (b *GoogleBackend) CreateSheet(ctx context.Context, title string, columnCount int64) error {
	request := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    1000,
						ColumnCount: columnCount,
					},
				},
			},
		}},
	}

	if _, err := b.service.Spreadsheets.BatchUpdate(b.spreadsheetID, request).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to create worksheet %q: %w", title, err)
	}
	return nil
}

func (b *GoogleBackend) Rows(ctx context.Context, title string) ([][]string, error) {
	valueRange, err := b.service.Spreadsheets.Values.Get(b.spreadsheetID, sheetRange(title)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", title, err)
	}

	rows := make([][]string, 0, len(valueRange.Values))
	for _, values := range valueRange.Values {
		row := make([]string, len(values))
		for i, value := range values {
			row[i] = cellString(value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (b *GoogleBackend) AppendRow(ctx context.Context, title string, row []string) error {
	valueRange := &sheets.ValueRange{Values: [][]interface{}{cellValues(row)}}

	_, err := b.service.Spreadsheets.Values.Append(b.spreadsheetID, sheetRange(title), valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append row to worksheet %q: %w", title, err)
	}
	return nil
}

func (b *GoogleBackend) UpdateRow(ctx context.Context, title string, rowIndex int64, row []string) error {
	valueRange := &sheets.ValueRange{Values: [][]interface{}{cellValues(row)}}
	target := fmt.Sprintf("'%s'!A%d", title, rowIndex)

	_, err := b.service.Spreadsheets.Values.Update(b.spreadsheetID, target, valueRange).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update row %d in worksheet %q: %w", rowIndex, title, err)
	}
	return nil
}

func (b *GoogleBackend) DeleteRow(ctx context.Context, title string, rowIndex int64) error {
	sheetID, err := b.sheetID(ctx, title)
	if err != nil {
		return err
	}

	request := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: rowIndex - 1,
					EndIndex:   rowIndex,
				},
			},
		}},
	}

	if _, err := b.service.Spreadsheets.BatchUpdate(b.spreadsheetID, request).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete row %d from worksheet %q: %w", rowIndex, title, err)
	}
	return nil
}

func (b *GoogleBackend) Clear(ctx context.Context, title string) error {
	_, err := b.service.Spreadsheets.Values.Clear(b.spreadsheetID, sheetRange(title), &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear worksheet %q: %w", title, err)
	}
	return nil
}

// FormatHeader styles row 1 (grey background, bold text) and freezes it.
func (b *GoogleBackend) FormatHeader(ctx context.Context, title string) error {
	sheetID, err := b.sheetID(ctx, title)
	if err != nil {
		return err
	}

	request := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:       sheetID,
						StartRowIndex: 0,
						EndRowIndex:   1,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							BackgroundColor: &sheets.Color{Red: 0.9, Green: 0.9, Blue: 0.9},
							TextFormat:      &sheets.TextFormat{Bold: true},
						},
					},
					Fields: "userEnteredFormat(backgroundColor,textFormat)",
				},
			},
			{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId: sheetID,
						GridProperties: &sheets.GridProperties{
							FrozenRowCount: 1,
						},
					},
					Fields: "gridProperties.frozenRowCount",
				},
			},
		},
	}

	if _, err := b.service.Spreadsheets.BatchUpdate(b.spreadsheetID, request).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to format header of worksheet %q: %w", title, err)
	}
	return nil
}

func (b *GoogleBackend) sheetID(ctx context.Context, title string) (int64, error) {
	spreadsheet, err := b.service.Spreadsheets.Get(b.spreadsheetID).
		Fields(googleapi.Field("sheets.properties")).
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch spreadsheet metadata: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == title {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("worksheet %q not found", title)
}

func sheetRange(title string) string {
	return fmt.Sprintf("'%s'", title)
}

func cellString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func cellValues(row []string) []interface{} {
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}
	return values
}
