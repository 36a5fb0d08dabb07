package pipeline

import (
	"context"
)

// MessageSource supplies the batch of notification messages for one run.
// Implementations own fetching, filtering, and pagination.
type MessageSource interface {
	FetchMessages(ctx context.Context) ([]Message, error)
}

// TransactionTable is the appendable tabular destination. Row 1 is the header;
// the Transaction_ID column is the dedup key column. Implementations must keep
// column order stable.
type TransactionTable interface {
	// HeaderRow returns the values of row 1, or an empty slice when the table
	// has no first row yet.
	HeaderRow(ctx context.Context) ([]string, error)

	// TransactionIDs returns every value of the Transaction_ID column below
	// the header.
	TransactionIDs(ctx context.Context) ([]string, error)

	// InsertHeader writes the header into row 1. Only called when HeaderRow
	// reported the row absent or entirely blank.
	InsertHeader(ctx context.Context, header []string) error

	// AppendRows appends a batch of rows in order. Implementations that cannot
	// take a whole batch return ErrBulkUnsupported so the caller can degrade
	// to AppendRow.
	AppendRows(ctx context.Context, rows [][]string) error

	// AppendRow appends a single row.
	AppendRow(ctx context.Context, row []string) error
}
