package notionsync

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/jomei/notionapi"

	"github.com/dvloznov/expense-tracker/internal/domain"
)

func TestRecordToProperties(t *testing.T) {
	rec := domain.TransactionRecord{
		Date:          civil.Date{Year: 2024, Month: 6, Day: 5},
		Merchant:      "JOHN DOE STORES",
		Amount:        "250.00",
		RawText:       "Rs. 250.00 paid to VPA john@upi",
		Category:      "Food",
		TransactionID: "ABC123XY",
	}

	props := RecordToProperties(rec)

	title, ok := props["Transaction ID"].(notionapi.TitleProperty)
	if !ok || len(title.Title) == 0 {
		t.Fatalf("Transaction ID property = %#v", props["Transaction ID"])
	}
	if got := title.Title[0].Text.Content; got != "ABC123XY" {
		t.Errorf("title content = %q, want ABC123XY", got)
	}

	number, ok := props["Amount"].(notionapi.NumberProperty)
	if !ok {
		t.Fatalf("Amount property = %#v", props["Amount"])
	}
	if number.Number != 250.0 {
		t.Errorf("amount = %v, want 250", number.Number)
	}

	sel, ok := props["Category"].(notionapi.SelectProperty)
	if !ok || sel.Select.Name != "Food" {
		t.Errorf("Category property = %#v", props["Category"])
	}

	if _, ok := props["Date"].(notionapi.DateProperty); !ok {
		t.Errorf("Date property = %#v", props["Date"])
	}
}

func TestRecordToProperties_SynthesizedKey(t *testing.T) {
	rec := domain.TransactionRecord{
		Date:     civil.Date{Year: 2024, Month: 6, Day: 5},
		Merchant: domain.UnknownMerchant,
		Amount:   "99.00",
	}

	props := RecordToProperties(rec)

	title := props["Transaction ID"].(notionapi.TitleProperty)
	if got := title.Title[0].Text.Content; got != "2024-06-05_99.00" {
		t.Errorf("title content = %q, want 2024-06-05_99.00", got)
	}

	if _, ok := props["Category"]; ok {
		t.Error("empty category should be omitted")
	}
}

func TestExtractTransactionID(t *testing.T) {
	page := notionapi.Page{
		Properties: notionapi.Properties{
			"Transaction ID": &notionapi.TitleProperty{
				Title: []notionapi.RichText{{PlainText: "ABC123XY"}},
			},
		},
	}

	if got := extractTransactionID(page); got != "ABC123XY" {
		t.Errorf("extractTransactionID = %q, want ABC123XY", got)
	}

	if got := extractTransactionID(notionapi.Page{Properties: notionapi.Properties{}}); got != "" {
		t.Errorf("missing property = %q, want empty", got)
	}
}
