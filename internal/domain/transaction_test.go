package domain

import (
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
)

func TestDedupKey(t *testing.T) {
	rec := TransactionRecord{
		Date:   civil.Date{Year: 2024, Month: time.June, Day: 5},
		Amount: "250.00",
	}

	t.Run("uses transaction id when present", func(t *testing.T) {
		rec := rec
		rec.TransactionID = " ABC123XY "
		if got := rec.DedupKey(); got != "ABC123XY" {
			t.Errorf("DedupKey = %q, want trimmed id", got)
		}
	})

	t.Run("synthesizes from date and amount when id empty", func(t *testing.T) {
		if got := rec.DedupKey(); got != "2024-06-05_250.00" {
			t.Errorf("DedupKey = %q, want synthesized key", got)
		}
	})

	t.Run("never empty", func(t *testing.T) {
		var zero TransactionRecord
		if zero.DedupKey() == "" {
			t.Error("DedupKey of zero record is empty")
		}
	})
}

func TestRow_ColumnOrder(t *testing.T) {
	rec := TransactionRecord{
		Date:          civil.Date{Year: 2024, Month: time.June, Day: 5},
		Merchant:      "JOHN DOE STORES",
		Amount:        "250.00",
		RawText:       "Rs. 250.00 paid",
		Category:      "Food",
		TransactionID: "ABC123XY",
	}

	want := []string{"2024-06-05", "JOHN DOE STORES", "250.00", "Rs. 250.00 paid", "Food", "ABC123XY"}
	if got := rec.Row(); !reflect.DeepEqual(got, want) {
		t.Errorf("Row = %v, want %v", got, want)
	}
	if len(want) != len(Header) {
		t.Fatalf("row width %d does not match header width %d", len(want), len(Header))
	}
}

func TestRow_SanitizesAndRecaps(t *testing.T) {
	rec := TransactionRecord{
		Date:    civil.Date{Year: 2024, Month: time.June, Day: 5},
		Amount:  "0.00",
		RawText: "line\r\n" + strings.Repeat("x", MaxStoredTextLen+50),
	}

	cell := rec.Row()[3]
	if strings.ContainsAny(cell, "\r\n") {
		t.Error("stored RawText still contains newlines")
	}
	if len(cell) != MaxStoredTextLen+len(TruncationMarker) {
		t.Errorf("stored RawText length = %d, want cap %d plus marker", len(cell), MaxStoredTextLen)
	}
	if !strings.HasSuffix(cell, TruncationMarker) {
		t.Error("capped RawText missing truncation marker")
	}
}

func TestRecordFromRow(t *testing.T) {
	row := []string{"2024-06-05", "JOHN DOE STORES", "250.00", "Rs. 250.00 paid", "Food", "ABC123XY"}

	rec := RecordFromRow(row)
	if !reflect.DeepEqual(rec.Row(), row) {
		t.Errorf("round trip = %v, want %v", rec.Row(), row)
	}

	t.Run("short row pads missing fields", func(t *testing.T) {
		rec := RecordFromRow([]string{"2024-06-05", "Unknown"})
		if rec.Merchant != "Unknown" || rec.Amount != "" || rec.TransactionID != "" {
			t.Errorf("short row = %+v", rec)
		}
	})

	t.Run("bad date yields zero date", func(t *testing.T) {
		rec := RecordFromRow([]string{"garbage"})
		if rec.Date != (civil.Date{}) {
			t.Errorf("date = %v, want zero", rec.Date)
		}
	})
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"crlf become two spaces", "a\r\nb", 100, "a  b"},
		{"lone newline", "a\nb", 100, "a b"},
		{"under cap untouched", "abc", 3, "abc"},
		{"over cap truncated", "abcd", 3, "abc..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input, tt.max); got != tt.want {
				t.Errorf("SanitizeText(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}

func TestSanitizeText_NeverSplitsMultibyteRune(t *testing.T) {
	// A rupee sign straddling the cap must be dropped whole, not cut
	// mid-sequence into invalid UTF-8.
	input := strings.Repeat("a", MaxStoredTextLen-1) + "₹ 250"

	got := SanitizeText(input, MaxStoredTextLen)

	if !utf8.ValidString(got) {
		t.Fatalf("capped text is not valid UTF-8: tail %q", got[len(got)-8:])
	}
	if !strings.HasSuffix(got, TruncationMarker) {
		t.Error("capped text missing truncation marker")
	}
	kept := strings.TrimSuffix(got, TruncationMarker)
	if n := utf8.RuneCountInString(kept); n != MaxStoredTextLen {
		t.Errorf("kept %d runes, want %d", n, MaxStoredTextLen)
	}
	if !strings.HasSuffix(kept, "₹") {
		t.Errorf("rune at the boundary not kept whole: tail %q", kept[len(kept)-4:])
	}
}

func TestSanitizeText_CapCountsRunes(t *testing.T) {
	input := strings.Repeat("₹", 5)

	if got := SanitizeText(input, 5); got != input {
		t.Errorf("SanitizeText = %q, want 5-rune input untouched", got)
	}
	if got, want := SanitizeText(input, 4), strings.Repeat("₹", 4)+TruncationMarker; got != want {
		t.Errorf("SanitizeText = %q, want %q", got, want)
	}
}
