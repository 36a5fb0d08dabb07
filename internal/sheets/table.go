// Package sheets implements the destination transaction table on top of a
// Google Sheets worksheet. Row 1 is the header; Transaction_ID lives in
// column F and is the dedup key column.
package sheets

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/dvloznov/expense-tracker/internal/pipeline"
)

// transactionIDColumn is the sheet column holding the dedup key.
const transactionIDColumn = "F"

// Table is a pipeline.TransactionTable backed by one worksheet of one
// spreadsheet.
type Table struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
}

// NewTable creates a table client. credentialsFile may be empty, in which case
// Application Default Credentials are used, same as the other Google clients
// in this repo.
func NewTable(ctx context.Context, spreadsheetID, sheetName, credentialsFile string) (*Table, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}
	if sheetName == "" {
		sheetName = "Sheet1"
	}

	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}

	return &Table{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// HeaderRow reads row 1. A sheet with no data at all yields an empty slice,
// not an error.
func (t *Table) HeaderRow(ctx context.Context) ([]string, error) {
	resp, err := t.svc.Spreadsheets.Values.Get(t.spreadsheetID, t.rangeRef("1:1")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read header row: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return cellStrings(resp.Values[0]), nil
}

// TransactionIDs reads every value of the Transaction_ID column below the
// header.
func (t *Table) TransactionIDs(ctx context.Context) ([]string, error) {
	ref := t.rangeRef(fmt.Sprintf("%s2:%s", transactionIDColumn, transactionIDColumn))
	resp, err := t.svc.Spreadsheets.Values.Get(t.spreadsheetID, ref).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read transaction id column: %w", err)
	}

	ids := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		ids = append(ids, fmt.Sprint(row[0]))
	}
	return ids, nil
}

// InsertHeader writes the header into row 1. The appender only calls this when
// row 1 is absent or entirely blank, so a plain update cannot clobber data.
func (t *Table) InsertHeader(ctx context.Context, header []string) error {
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{cellValues(header)}}
	_, err := t.svc.Spreadsheets.Values.
		Update(t.spreadsheetID, t.rangeRef("A1"), vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: insert header row: %w", err)
	}
	return nil
}

// AppendRows appends the whole batch in one call. A payload-too-large
// rejection maps to pipeline.ErrBulkUnsupported so the appender can degrade to
// per-row writes.
func (t *Table) AppendRows(ctx context.Context, rows [][]string) error {
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, cellValues(row))
	}

	if err := t.append(ctx, &sheetsapi.ValueRange{Values: values}); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 413 {
			return pipeline.ErrBulkUnsupported
		}
		return fmt.Errorf("sheets: bulk append: %w", err)
	}
	return nil
}

// AppendRow appends a single row.
func (t *Table) AppendRow(ctx context.Context, row []string) error {
	if err := t.append(ctx, &sheetsapi.ValueRange{Values: [][]interface{}{cellValues(row)}}); err != nil {
		return fmt.Errorf("sheets: append row: %w", err)
	}
	return nil
}

// Rows reads every data row below the header, in sheet order. Used by the API
// to list persisted transactions; the pipeline itself never needs full rows.
func (t *Table) Rows(ctx context.Context) ([][]string, error) {
	resp, err := t.svc.Spreadsheets.Values.Get(t.spreadsheetID, t.rangeRef("A2:F")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read rows: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		rows = append(rows, cellStrings(row))
	}
	return rows, nil
}

func (t *Table) append(ctx context.Context, vr *sheetsapi.ValueRange) error {
	_, err := t.svc.Spreadsheets.Values.
		Append(t.spreadsheetID, t.rangeRef("A1"), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (t *Table) rangeRef(ref string) string {
	return fmt.Sprintf("%s!%s", t.sheetName, ref)
}

func cellValues(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}

func cellStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = fmt.Sprint(cell)
	}
	return out
}

var _ pipeline.TransactionTable = (*Table)(nil)
