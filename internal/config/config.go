// Package config loads runtime configuration from the environment and the
// merchant dictionary from disk. Both are loaded once at startup and passed by
// reference into the pipeline; nothing here is global mutable state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every collaborator setting. Required: SPREADSHEET_ID.
type Config struct {
	SpreadsheetID   string // SPREADSHEET_ID
	SheetName       string // SHEET_NAME, default "Sheet1"
	CredentialsFile string // GOOGLE_CREDENTIALS_FILE, empty means ADC
	GmailQuery      string // GMAIL_QUERY, default "transaction"
	MaxResults      int64  // MAX_RESULTS, default 100
	GeminiModel     string // GEMINI_MODEL, default gemini-2.5-flash
	DictionaryFile  string // MERCHANT_DICTIONARY_FILE, default merchant_categories.json
}

// Load reads configuration from the environment, after best-effort loading a
// local .env file.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	spreadsheetID := os.Getenv("SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID is not set")
	}

	maxResults := int64(100)
	if raw := os.Getenv("MAX_RESULTS"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_RESULTS %q is not a positive integer", raw)
		}
		maxResults = n
	}

	return &Config{
		SpreadsheetID:   spreadsheetID,
		SheetName:       getenvDefault("SHEET_NAME", "Sheet1"),
		CredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		GmailQuery:      getenvDefault("GMAIL_QUERY", "transaction"),
		MaxResults:      maxResults,
		GeminiModel:     getenvDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		DictionaryFile:  getenvDefault("MERCHANT_DICTIONARY_FILE", "merchant_categories.json"),
	}, nil
}

// LoadMerchantDictionary reads the merchant-to-category map from a JSON file.
// Keys are free-form here; the resolver normalizes them. A missing file is an
// empty dictionary, not an error, so the classifier carries the whole load.
func LoadMerchantDictionary(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read merchant dictionary %q: %w", path, err)
	}

	var dict map[string]string
	if err := json.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("parse merchant dictionary %q: %w", path, err)
	}
	return dict, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
