package domain

import (
	"strings"
	"unicode/utf8"

	"cloud.google.com/go/civil"
)

// Header is the fixed column layout of the destination sheet, row 1.
var Header = []string{"Date", "Merchant", "Amount", "RawText", "Category", "Transaction_ID"}

const (
	// UnknownMerchant is stored when no merchant heuristic matched.
	UnknownMerchant = "Unknown"

	// ZeroAmount is stored when no amount could be parsed from the text.
	ZeroAmount = "0.00"

	// MaxStoredTextLen caps RawText at the storage boundary. It is looser than
	// the extractor cap: the extractor snippet doubles as classifier input and
	// has to stay compact, the sheet only has to stay tidy.
	MaxStoredTextLen = 1000

	// TruncationMarker is appended whenever text is cut to fit a cap.
	TruncationMarker = "..."
)

// TransactionRecord is one transaction parsed out of a notification message.
// A record is assembled once per source message and never mutated afterwards;
// the appender either persists it or discards it as a duplicate.
type TransactionRecord struct {
	Date          civil.Date // from the message's internal timestamp, not body text
	Merchant      string     // "Unknown" if no heuristic matched
	Amount        string     // decimal string with two fraction digits, "0.00" if unparsed
	RawText       string     // normalized snippet, newline-free
	Category      string     // dictionary label or classifier label
	TransactionID string     // reference id from the text, else the source message id
}

// DedupKey returns the string used to detect already-persisted transactions.
// When the record carries no reference id at all, the key is synthesized from
// date and amount; two distinct same-day same-amount transactions without a
// reference number will then collapse into one row.
func (t TransactionRecord) DedupKey() string {
	if id := strings.TrimSpace(t.TransactionID); id != "" {
		return id
	}
	return t.Date.String() + "_" + t.Amount
}

// Row maps the record into the sheet's column order. RawText is sanitized and
// re-capped here even though the extractor already did so; the storage boundary
// does not trust its callers.
func (t TransactionRecord) Row() []string {
	return []string{
		t.Date.String(),
		t.Merchant,
		t.Amount,
		SanitizeText(t.RawText, MaxStoredTextLen),
		t.Category,
		t.DedupKey(),
	}
}

// RecordFromRow is the inverse of Row, used when reading persisted rows back.
// Short rows leave the missing trailing fields empty; an unparseable date
// yields the zero Date.
func RecordFromRow(row []string) TransactionRecord {
	col := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	var rec TransactionRecord
	if d, err := civil.ParseDate(col(0)); err == nil {
		rec.Date = d
	}
	rec.Merchant = col(1)
	rec.Amount = col(2)
	rec.RawText = col(3)
	rec.Category = col(4)
	rec.TransactionID = col(5)
	return rec
}

var newlineReplacer = strings.NewReplacer("\r", " ", "\n", " ")

// SanitizeText strips CR/LF and caps the text at max characters, appending the
// truncation marker if anything was cut. The cap counts runes, not bytes, so a
// multibyte character at the boundary is never split.
func SanitizeText(s string, max int) string {
	s = newlineReplacer.Replace(s)
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := 0
	for i := range s {
		if runes == max {
			return s[:i] + TruncationMarker
		}
		runes++
	}
	return s
}
