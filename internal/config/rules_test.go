package config_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ning0612/Sortrules/internal/config"
	"github.com/Ning0612/Sortrules/internal/domain"
	"github.com/Ning0612/Sortrules/internal/testutil"
)

// TestRuleDocumentRoundTrip_PreservesOrder exports a table whose names
// would re-sort alphabetically and checks the parsed table keeps the
// original precedence order.
func TestRuleDocumentRoundTrip_PreservesOrder(t *testing.T) {
	table := domain.Table{
		{Name: "Zeta", Extensions: []string{".za"}},
		{Name: "Alpha", Extensions: []string{".aa"}},
		{Name: "Others", Extensions: nil},
	}

	data, err := config.MarshalRuleDocument(table)
	if err != nil {
		t.Fatalf("MarshalRuleDocument failed: %v", err)
	}

	parsed, err := config.ParseRuleDocument(data)
	if err != nil {
		t.Fatalf("ParseRuleDocument failed: %v", err)
	}

	want := []domain.Category{"Zeta", "Alpha", "Others"}
	names := parsed.Names()
	if len(names) != len(want) {
		t.Fatalf("Expected %d rules, got %d: %v", len(want), len(names), names)
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("Expected %s at %d, got %s", name, i, names[i])
		}
	}
}

func TestRuleDocumentRoundTrip_DefaultTable(t *testing.T) {
	data, err := config.MarshalRuleDocument(domain.DefaultTable())
	if err != nil {
		t.Fatalf("MarshalRuleDocument failed: %v", err)
	}

	parsed, err := config.ParseRuleDocument(data)
	if err != nil {
		t.Fatalf("ParseRuleDocument failed: %v", err)
	}

	want := domain.DefaultTable()
	if len(parsed) != len(want) {
		t.Fatalf("Expected %d rules, got %d", len(want), len(parsed))
	}
	for i, rule := range want {
		if parsed[i].Name != rule.Name {
			t.Errorf("Expected %s at %d, got %s", rule.Name, i, parsed[i].Name)
		}
		if len(parsed[i].Extensions) != len(rule.Extensions) {
			t.Errorf("Extension count differs for %s", rule.Name)
		}
	}
}

func TestParseRuleDocument_MissingMapping(t *testing.T) {
	doc := `{"exported_at": "2026-01-01 00:00:00", "version": "1.0"}`

	_, err := config.ParseRuleDocument([]byte(doc))
	if !errors.Is(err, domain.ErrRuleFileInvalid) {
		t.Errorf("Expected ErrRuleFileInvalid, got %v", err)
	}
}

func TestParseRuleDocument_NotJSON(t *testing.T) {
	_, err := config.ParseRuleDocument([]byte("not a document"))
	if !errors.Is(err, domain.ErrRuleFileInvalid) {
		t.Errorf("Expected ErrRuleFileInvalid, got %v", err)
	}
}

func TestParseRuleDocument_NormalizesExtensions(t *testing.T) {
	doc := `{"extensions_map": {"Docs": ["PDF", ".TXT", " docx "]}}`

	table, err := config.ParseRuleDocument([]byte(doc))
	if err != nil {
		t.Fatalf("ParseRuleDocument failed: %v", err)
	}

	if table[0].Name != "Docs" {
		t.Fatalf("Expected Docs first, got %s", table[0].Name)
	}
	want := []string{".pdf", ".txt", ".docx"}
	if len(table[0].Extensions) != len(want) {
		t.Fatalf("Expected %v, got %v", want, table[0].Extensions)
	}
	for i, ext := range want {
		if table[0].Extensions[i] != ext {
			t.Errorf("Expected %s at %d, got %s", ext, i, table[0].Extensions[i])
		}
	}
}

func TestParseRuleDocument_AppendsCatchAll(t *testing.T) {
	doc := `{"extensions_map": {"Docs": [".pdf"], "Pics": [".png"]}}`

	table, err := config.ParseRuleDocument([]byte(doc))
	if err != nil {
		t.Fatalf("ParseRuleDocument failed: %v", err)
	}

	catchAll, ok := table.CatchAll()
	if !ok {
		t.Fatal("Expected a catch-all to be appended")
	}
	if catchAll != "Others" {
		t.Errorf("Expected Others catch-all, got %s", catchAll)
	}
	if table[len(table)-1].Name != "Others" {
		t.Errorf("Catch-all should come last, got %v", table.Names())
	}
}

func TestParseRuleDocument_DuplicateCategory(t *testing.T) {
	doc := `{"extensions_map": {"Docs": [".pdf"], "Docs": [".txt"], "Others": []}}`

	_, err := config.ParseRuleDocument([]byte(doc))
	if !errors.Is(err, domain.ErrRuleFileInvalid) {
		t.Errorf("Expected ErrRuleFileInvalid for duplicate category, got %v", err)
	}
}

func TestExportTable_Document(t *testing.T) {
	root, cleanup := testutil.TempDir(t)
	defer cleanup()

	path := filepath.Join(root, "rules.json")
	if err := config.ExportTable(path, domain.DefaultTable()); err != nil {
		t.Fatalf("ExportTable failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}

	var doc struct {
		ExtensionsMap map[string][]string `json:"extensions_map"`
		ExportedAt    string              `json:"exported_at"`
		Version       string              `json:"version"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Export is not valid JSON: %v", err)
	}

	if doc.Version != config.RuleDocumentVersion {
		t.Errorf("Expected version %s, got %s", config.RuleDocumentVersion, doc.Version)
	}
	if _, err := time.Parse(config.TimeLayout, doc.ExportedAt); err != nil {
		t.Errorf("exported_at is not a valid timestamp: %v", err)
	}
	if len(doc.ExtensionsMap) != len(domain.DefaultTable()) {
		t.Errorf("Expected %d categories, got %d", len(domain.DefaultTable()), len(doc.ExtensionsMap))
	}
}

func TestImportTable_FileMissing(t *testing.T) {
	root, cleanup := testutil.TempDir(t)
	defer cleanup()

	_, err := config.ImportTable(filepath.Join(root, "rules.json"))
	if err == nil {
		t.Error("Expected an error for a missing rules file")
	}
}
