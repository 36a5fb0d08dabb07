package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dvloznov/expense-tracker/internal/domain"
	"github.com/dvloznov/expense-tracker/internal/logger"
)

// ErrBulkUnsupported is returned by TransactionTable.AppendRows when the
// destination rejects batch writes. The appender handles it by degrading to
// per-row writes, exactly once; any other append error is a hard failure for
// the whole batch.
var ErrBulkUnsupported = errors.New("destination does not support bulk appends")

// Appender filters duplicate records and appends survivors to the destination
// table. One Appender invocation owns its known-id set for the duration of a
// run; concurrent runs against the same destination must be serialized by the
// caller.
type Appender struct {
	table TransactionTable
}

// NewAppender creates an appender for the given destination table.
func NewAppender(table TransactionTable) *Appender {
	return &Appender{table: table}
}

// AppendResult reports the per-item outcome of one append pass.
type AppendResult struct {
	Appended          []string // dedup keys persisted, in input order
	Skipped           []string // dedup keys suppressed as duplicates
	HeaderInitialized bool
}

// Run performs a complete append pass: ensure the header row exists, load the
// known-id set from the Transaction_ID column, then filter and append the
// records. Already-appended rows stay appended on failure; there is no
// partial-commit rollback, and dedup makes a whole-run retry safe.
func (a *Appender) Run(ctx context.Context, records []domain.TransactionRecord) (AppendResult, error) {
	headerInitialized, err := a.EnsureHeader(ctx)
	if err != nil {
		return AppendResult{}, err
	}

	ids, err := a.table.TransactionIDs(ctx)
	if err != nil {
		return AppendResult{HeaderInitialized: headerInitialized}, fmt.Errorf("appender: load existing ids: %w", err)
	}
	existing := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		existing[id] = struct{}{}
	}

	res, err := a.Append(ctx, records, existing)
	res.HeaderInitialized = headerInitialized
	return res, err
}

// EnsureHeader inserts the header row when row 1 is absent or entirely blank,
// and leaves the destination untouched otherwise. Idempotent. Returns whether
// the header was inserted by this call.
func (a *Appender) EnsureHeader(ctx context.Context) (bool, error) {
	row, err := a.table.HeaderRow(ctx)
	if err != nil {
		return false, fmt.Errorf("appender: read header row: %w", err)
	}
	if !rowBlank(row) {
		return false, nil
	}
	if err := a.table.InsertHeader(ctx, domain.Header); err != nil {
		return false, fmt.Errorf("appender: insert header row: %w", err)
	}
	return true, nil
}

// Append filters records against existing and appends the survivors in input
// order. existing grows in memory before the physical write succeeds, so two
// records in the same batch sharing a dedup key collapse to one row even if the
// key was synthesized from date and amount.
func (a *Appender) Append(ctx context.Context, records []domain.TransactionRecord, existing map[string]struct{}) (AppendResult, error) {
	log := logger.FromContext(ctx)

	var res AppendResult
	var rows [][]string

	for _, rec := range records {
		key := rec.DedupKey()
		if _, dup := existing[key]; dup {
			log.Info().Str("transaction_id", key).Msg("Skipped duplicate transaction")
			res.Skipped = append(res.Skipped, key)
			continue
		}
		existing[key] = struct{}{}
		rows = append(rows, rec.Row())
		res.Appended = append(res.Appended, key)
	}

	if len(rows) == 0 {
		log.Info().Int("skipped", len(res.Skipped)).Msg("No new transactions to append")
		return res, nil
	}

	written, err := a.appendRows(ctx, rows)
	if err != nil {
		// Rows written before the failure stay written; the result must
		// report them or a retry audit under-counts what is in the table.
		res.Appended = res.Appended[:written]
		return res, err
	}

	log.Info().
		Int("appended", len(res.Appended)).
		Int("skipped", len(res.Skipped)).
		Msg("Appended transactions")
	return res, nil
}

// appendRows prefers one bulk write to bound round trips, degrading to per-row
// writes when the destination rejects the batch form. Returns how many rows
// were actually written; a failed bulk write persists nothing, a failed per-row
// pass persists every row before the failing one.
func (a *Appender) appendRows(ctx context.Context, rows [][]string) (int, error) {
	err := a.table.AppendRows(ctx, rows)
	if err == nil {
		return len(rows), nil
	}
	if !errors.Is(err, ErrBulkUnsupported) {
		return 0, fmt.Errorf("appender: bulk append: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Warn().Msg("Bulk append unsupported, falling back to per-row writes")
	for i, row := range rows {
		if err := a.table.AppendRow(ctx, row); err != nil {
			return i, fmt.Errorf("appender: append row %d: %w", i+1, err)
		}
	}
	return len(rows), nil
}

func rowBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
