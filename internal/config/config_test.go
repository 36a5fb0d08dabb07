package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_RequiresSpreadsheetID(t *testing.T) {
	t.Setenv("SPREADSHEET_ID", "")
	if _, err := Load(); err == nil {
		t.Error("Load succeeded without SPREADSHEET_ID")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SPREADSHEET_ID", "sheet-123")
	t.Setenv("SHEET_NAME", "")
	t.Setenv("GMAIL_QUERY", "")
	t.Setenv("MAX_RESULTS", "")
	t.Setenv("GEMINI_MODEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SheetName != "Sheet1" {
		t.Errorf("SheetName = %q, want Sheet1", cfg.SheetName)
	}
	if cfg.GmailQuery != "transaction" {
		t.Errorf("GmailQuery = %q, want transaction", cfg.GmailQuery)
	}
	if cfg.MaxResults != 100 {
		t.Errorf("MaxResults = %d, want 100", cfg.MaxResults)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
}

func TestLoad_RejectsBadMaxResults(t *testing.T) {
	t.Setenv("SPREADSHEET_ID", "sheet-123")
	for _, bad := range []string{"abc", "0", "-5"} {
		t.Setenv("MAX_RESULTS", bad)
		if _, err := Load(); err == nil {
			t.Errorf("Load accepted MAX_RESULTS=%q", bad)
		}
	}
}

func TestLoadMerchantDictionary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "merchants.json")
	content := `{"JOHN DOE STORES": "Food", "landlord@bank": "Rent"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	dict, err := LoadMerchantDictionary(path)
	if err != nil {
		t.Fatalf("LoadMerchantDictionary: %v", err)
	}
	if dict["JOHN DOE STORES"] != "Food" || dict["landlord@bank"] != "Rent" {
		t.Errorf("dictionary = %v", dict)
	}
}

func TestLoadMerchantDictionary_MissingFileIsEmpty(t *testing.T) {
	dict, err := LoadMerchantDictionary(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadMerchantDictionary: %v", err)
	}
	if len(dict) != 0 {
		t.Errorf("dictionary = %v, want empty", dict)
	}
}

func TestLoadMerchantDictionary_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMerchantDictionary(path); err == nil {
		t.Error("LoadMerchantDictionary accepted malformed JSON")
	}
}
