package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dvloznov/expense-tracker/internal/category"
	"github.com/dvloznov/expense-tracker/internal/classifier"
	"github.com/dvloznov/expense-tracker/internal/config"
	"github.com/dvloznov/expense-tracker/internal/gmail"
	"github.com/dvloznov/expense-tracker/internal/logger"
	"github.com/dvloznov/expense-tracker/internal/pipeline"
	"github.com/dvloznov/expense-tracker/internal/sheets"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags; flags override environment configuration
	query := flag.String("query", "", "Gmail search query (overrides GMAIL_QUERY)")
	maxResults := flag.Int64("max-results", 0, "Maximum messages to fetch (overrides MAX_RESULTS)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *query != "" {
		cfg.GmailQuery = *query
	}
	if *maxResults > 0 {
		cfg.MaxResults = *maxResults
	}

	dictionary, err := config.LoadMerchantDictionary(cfg.DictionaryFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load merchant dictionary")
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("query", cfg.GmailQuery).
		Int64("max_results", cfg.MaxResults).
		Str("spreadsheet_id", cfg.SpreadsheetID).
		Int("dictionary_entries", len(dictionary)).
		Msg("Starting sync run")

	source, err := gmail.NewSource(ctx, cfg.CredentialsFile, cfg.GmailQuery, cfg.MaxResults)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gmail source")
	}

	table, err := sheets.NewTable(ctx, cfg.SpreadsheetID, cfg.SheetName, cfg.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Sheets table")
	}

	resolver := category.NewResolver(dictionary, classifier.NewGemini(cfg.GeminiModel))
	assembler := pipeline.NewAssembler(resolver)
	appender := pipeline.NewAppender(table)

	result, err := pipeline.Run(ctx, source, assembler, appender)
	if err != nil {
		log.Fatal().Err(err).
			Int("fetched", result.Fetched).
			Int("appended", len(result.Appended)).
			Msg("Sync run failed")
	}

	log.Info().
		Int("fetched", result.Fetched).
		Int("appended", len(result.Appended)).
		Int("skipped", len(result.Skipped)).
		Bool("header_initialized", result.HeaderInitialized).
		Msg("Sync run completed")

	fmt.Printf("Done: %d fetched, %d appended, %d skipped.\n",
		result.Fetched, len(result.Appended), len(result.Skipped))
}
