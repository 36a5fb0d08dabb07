package extract

import (
	"strings"
	"testing"
	"time"
)

func TestExtract_FullNotification(t *testing.T) {
	text := "Rs. 250.00 paid to VPA merchant@bank JOHN DOE STORES on 05-06-24. transaction reference number is ABC123XY"
	millis := time.Date(2024, 6, 5, 10, 30, 0, 0, time.UTC).UnixMilli()

	p := Extract(text, millis, "msg-001")

	if got := p.Date.String(); got != "2024-06-05" {
		t.Errorf("Date = %q, want %q", got, "2024-06-05")
	}
	if p.Amount != "250.00" {
		t.Errorf("Amount = %q, want %q", p.Amount, "250.00")
	}
	if p.Merchant != "JOHN DOE STORES" {
		t.Errorf("Merchant = %q, want %q", p.Merchant, "JOHN DOE STORES")
	}
	if p.TransactionID != "ABC123XY" {
		t.Errorf("TransactionID = %q, want %q", p.TransactionID, "ABC123XY")
	}
	if p.RawText != text {
		t.Errorf("RawText = %q, want the normalized snippet", p.RawText)
	}
}

func TestExtract_Sentinels(t *testing.T) {
	// No currency marker, no VPA, no reference phrase.
	p := Extract("your statement is ready", 0, "fallback-id")

	if p.Amount != "0.00" {
		t.Errorf("Amount = %q, want %q", p.Amount, "0.00")
	}
	if p.Merchant != "Unknown" {
		t.Errorf("Merchant = %q, want %q", p.Merchant, "Unknown")
	}
	if p.TransactionID != "fallback-id" {
		t.Errorf("TransactionID = %q, want the fallback id", p.TransactionID)
	}
	if got := p.Date.String(); got != "1970-01-01" {
		t.Errorf("Date = %q, want epoch date for zero timestamp", got)
	}
}

func TestExtract_AmountFormats(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"dot and space", "Rs. 250.00 paid", "250.00"},
		{"no dot", "Rs 99 paid", "99.00"},
		{"inr prefix", "INR 1200.5 debited", "1200.50"},
		{"lowercase", "rs.42 paid", "42.00"},
		{"first match wins", "Rs. 10 then Rs. 20", "10.00"},
		{"no marker", "250.00 paid", "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Extract(tt.text, 0, "id")
			if p.Amount != tt.want {
				t.Errorf("Extract(%q).Amount = %q, want %q", tt.text, p.Amount, tt.want)
			}
		})
	}
}

func TestExtract_MerchantFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"name after vpa", "paid to VPA shop@upi ACME TRADERS on 01-02-24", "ACME TRADERS"},
		{"name before date", "paid to VPA shop@upi ACME TRADERS 01-02-24", "ACME TRADERS"},
		{"vpa identifier when no name", "paid to VPA somebody@okaxis on 01-02-24", "somebody@okaxis"},
		{"any vpa token as last resort", "payment received, contact help@bank for queries", "help@bank"},
		{"nothing matches", "payment received", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Extract(tt.text, 0, "id")
			if p.Merchant != tt.want {
				t.Errorf("Extract(%q).Merchant = %q, want %q", tt.text, p.Merchant, tt.want)
			}
		})
	}
}

func TestExtract_ReferenceIDPhrases(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"long phrase", "transaction reference number is XY99", "XY99"},
		{"ref no with colon", "Ref No: 12345", "12345"},
		{"ref no with dash", "ref no - A1B2", "A1B2"},
		{"reference number", "Reference Number 777X", "777X"},
		{"transaction ref no", "transaction ref no. 42AB", "42AB"},
		{"no phrase falls back", "paid Rs. 10", "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Extract(tt.text, 0, "fallback")
			if p.TransactionID != tt.want {
				t.Errorf("Extract(%q).TransactionID = %q, want %q", tt.text, p.TransactionID, tt.want)
			}
		})
	}
}

func TestNormalizeSnippet(t *testing.T) {
	t.Run("newlines become spaces", func(t *testing.T) {
		got := NormalizeSnippet("line one\r\nline two\nline three")
		if strings.ContainsAny(got, "\r\n") {
			t.Errorf("normalized snippet still contains newlines: %q", got)
		}
		if got != "line one  line two line three" {
			t.Errorf("NormalizeSnippet = %q", got)
		}
	})

	t.Run("long snippet is capped", func(t *testing.T) {
		got := NormalizeSnippet(strings.Repeat("a", MaxSnippetLen+100))
		if len(got) != MaxSnippetLen+len("...") {
			t.Errorf("len = %d, want %d", len(got), MaxSnippetLen+len("..."))
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("capped snippet missing truncation marker: %q", got[len(got)-10:])
		}
	})

	t.Run("short snippet untouched", func(t *testing.T) {
		if got := NormalizeSnippet("short"); got != "short" {
			t.Errorf("NormalizeSnippet(short) = %q", got)
		}
	})
}
