package pipeline

import (
	"context"

	"github.com/dvloznov/expense-tracker/internal/category"
	"github.com/dvloznov/expense-tracker/internal/domain"
	"github.com/dvloznov/expense-tracker/internal/extract"
)

// Assembler composes the field extractor and the category resolver into one
// message-to-record transform. It carries no state of its own beyond the
// injected resolver.
type Assembler struct {
	resolver *category.Resolver
}

// NewAssembler creates an assembler around the given resolver.
func NewAssembler(resolver *category.Resolver) *Assembler {
	return &Assembler{resolver: resolver}
}

// Assemble turns one message into a finalized record. Extraction cannot fail;
// the only error path is category resolution, which is a hard failure for this
// record rather than a silent default label.
func (a *Assembler) Assemble(ctx context.Context, msg Message) (domain.TransactionRecord, error) {
	part := extract.Extract(msg.Snippet, msg.TimestampMillis, msg.ID)

	cat, err := a.resolver.Resolve(ctx, part.Merchant, part.RawText)
	if err != nil {
		return domain.TransactionRecord{}, err
	}

	return domain.TransactionRecord{
		Date:          part.Date,
		Merchant:      part.Merchant,
		Amount:        part.Amount,
		RawText:       part.RawText,
		Category:      cat,
		TransactionID: part.TransactionID,
	}, nil
}
