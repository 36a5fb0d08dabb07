// Package extract turns one raw notification snippet plus its message metadata
// into a candidate transaction record. Everything here is a pure function:
// extraction never fails, every field has a deterministic sentinel, and a
// malformed input yields a complete, if low-confidence, record.
package extract

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/expense-tracker/internal/domain"
)

// MaxSnippetLen caps the normalized snippet. Intentionally shorter than
// domain.MaxStoredTextLen: the snippet is also fed to the classifier and has
// to stay compact but representative.
const MaxSnippetLen = 800

// Partial is a candidate record before category resolution.
type Partial struct {
	Date          civil.Date
	Amount        string
	Merchant      string
	RawText       string
	TransactionID string
}

// Extract parses one raw snippet. timestampMillis is the message's own
// timestamp (milliseconds since epoch); it is authoritative for the date, no
// date is ever read out of the body text. fallbackID is the source message id,
// used when no reference id phrase matches.
func Extract(rawSnippet string, timestampMillis int64, fallbackID string) Partial {
	snippet := NormalizeSnippet(rawSnippet)

	p := Partial{
		Date:    civil.DateOf(time.UnixMilli(timestampMillis).UTC()),
		RawText: snippet,
	}

	p.Amount = domain.ZeroAmount
	if amount, ok := FirstMatch(AmountRules, snippet); ok {
		p.Amount = amount
	}

	p.Merchant = domain.UnknownMerchant
	if merchant, ok := FirstMatch(MerchantRules, snippet); ok {
		p.Merchant = merchant
	}

	p.TransactionID = fallbackID
	if id, ok := FirstMatch(ReferenceIDRules, snippet); ok {
		p.TransactionID = id
	}

	return p
}

// NormalizeSnippet replaces CR/LF with single spaces and caps the length,
// appending the truncation marker if anything was cut.
func NormalizeSnippet(s string) string {
	return domain.SanitizeText(s, MaxSnippetLen)
}
