package notionsync

import (
	"strconv"
	"time"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/expense-tracker/internal/domain"
)

// RecordToProperties converts a TransactionRecord to Notion page properties.
// The "Transaction ID" title carries the dedup key so pages can be matched
// back to sheet rows on subsequent syncs.
func RecordToProperties(rec domain.TransactionRecord) notionapi.Properties {
	properties := notionapi.Properties{
		"Transaction ID": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: rec.DedupKey()},
				},
			},
		},
		"Merchant": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: rec.Merchant},
				},
			},
		},
		"Raw Text": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: rec.RawText},
				},
			},
		},
	}

	if amount, err := strconv.ParseFloat(rec.Amount, 64); err == nil {
		properties["Amount"] = notionapi.NumberProperty{Number: amount}
	}

	if rec.Category != "" {
		properties["Category"] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: rec.Category},
		}
	}

	if rec.Date.IsValid() {
		date := notionapi.Date(rec.Date.In(time.UTC))
		properties["Date"] = notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &date},
		}
	}

	return properties
}

// extractTransactionID pulls the dedup key back out of a Notion page's title
// property. Returns an empty string when the page has no usable title.
func extractTransactionID(page notionapi.Page) string {
	prop, ok := page.Properties["Transaction ID"]
	if !ok {
		return ""
	}

	title, ok := prop.(*notionapi.TitleProperty)
	if !ok || len(title.Title) == 0 {
		return ""
	}

	return title.Title[0].PlainText
}
