// Package notionsync mirrors persisted transactions into a Notion database.
// The sheet remains the source of truth; Notion pages are keyed by the
// transaction dedup key so repeated syncs update rather than duplicate.
package notionsync

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/expense-tracker/internal/domain"
	"github.com/dvloznov/expense-tracker/internal/logger"
)

// SyncRecords upserts the given transactions into a Notion database.
// Pages are matched on the "Transaction ID" title property: records with an
// existing page get updated, the rest get created. Failures on individual
// records are logged and skipped so one bad page does not abort the run.
func SyncRecords(ctx context.Context, notionClient NotionService, notionDBID string, records []domain.TransactionRecord, dryRun bool) error {
	log := logger.FromContext(ctx)

	log.Info().
		Int("record_count", len(records)).
		Bool("dry_run", dryRun).
		Msg("Starting transaction sync to Notion")

	notionPages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return fmt.Errorf("failed to query Notion pages: %w", err)
	}

	log.Info().Int("notion_page_count", len(notionPages)).Msg("Retrieved existing Notion pages")

	// Map transaction id -> page id for upsert matching.
	existingPages := make(map[string]string)
	for _, page := range notionPages {
		txID := extractTransactionID(page)
		if txID != "" {
			existingPages[txID] = string(page.ID)
		}
	}

	var created, updated, failed int
	for _, rec := range records {
		key := rec.DedupKey()
		pageID, exists := existingPages[key]

		if dryRun {
			if exists {
				log.Info().
					Str("transaction_id", key).
					Str("page_id", pageID).
					Msg("[DRY RUN] Would update existing Notion page")
				updated++
			} else {
				log.Info().
					Str("transaction_id", key).
					Msg("[DRY RUN] Would create new Notion page")
				created++
			}
			continue
		}

		props := RecordToProperties(rec)

		if exists {
			if _, err := notionClient.UpdatePage(ctx, pageID, props); err != nil {
				log.Warn().
					Err(err).
					Str("transaction_id", key).
					Str("page_id", pageID).
					Msg("Failed to update Notion page")
				failed++
				continue
			}
			updated++
		} else {
			page, err := notionClient.CreatePage(ctx, notionDBID, props)
			if err != nil {
				log.Warn().
					Err(err).
					Str("transaction_id", key).
					Msg("Failed to create Notion page")
				failed++
				continue
			}
			existingPages[key] = string(page.ID)
			created++
		}
	}

	log.Info().
		Int("created", created).
		Int("updated", updated).
		Int("failed", failed).
		Int("total", len(records)).
		Msg("Transaction sync completed")

	return nil
}

// queryAllNotionPages retrieves all pages from a Notion database, following
// pagination cursors.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, err
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
