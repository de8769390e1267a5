package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Ning0612/Sortrules/internal/domain"
)

// RuleDocumentVersion tags exported rule documents
const RuleDocumentVersion = "1.0"

// ruleDocument is the on-disk shape of an exported rule table. The
// mapping is kept raw because rule precedence follows document order and
// a Go map would lose it.
type ruleDocument struct {
	ExtensionsMap json.RawMessage `json:"extensions_map"`
	ExportedAt    string          `json:"exported_at"`
	Version       string          `json:"version"`
}

// ImportTable reads a rule document and returns the table it defines.
// The imported table fully replaces the previous one; extensions are
// normalized to lowercase with a leading dot, and a table without a
// catch-all gains an empty Others rule so classification stays total.
func ImportTable(path string) (domain.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRuleDocument(data)
}

// ParseRuleDocument parses rule document bytes into a validated table
func ParseRuleDocument(data []byte) (domain.Table, error) {
	var doc ruleDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRuleFileInvalid, err)
	}
	if len(doc.ExtensionsMap) == 0 {
		return nil, fmt.Errorf("%w: missing extensions_map", domain.ErrRuleFileInvalid)
	}

	table, err := decodeExtensionsMap(doc.ExtensionsMap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRuleFileInvalid, err)
	}

	for i := range table {
		table[i].Extensions = normalizeExtensions(table[i].Extensions)
	}

	// A document without a catch-all gets one appended so every file
	// still classifies somewhere
	if _, ok := table.CatchAll(); !ok {
		table = append(table, domain.Rule{Name: "Others"})
	}

	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRuleFileInvalid, err)
	}

	return table, nil
}

// ExportTable writes the table as a rule document at path
func ExportTable(path string, table domain.Table) error {
	data, err := MarshalRuleDocument(table)
	if err != nil {
		return err
	}

	// Write to temp file first for atomic operation
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp rules file: %w", err)
	}

	// Atomic rename to final path
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename rules file: %w", err)
	}

	return nil
}

// MarshalRuleDocument renders the table as rule document bytes
func MarshalRuleDocument(table domain.Table) ([]byte, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	mapping, err := marshalExtensionsMap(table)
	if err != nil {
		return nil, err
	}

	doc := ruleDocument{
		ExtensionsMap: mapping,
		ExportedAt:    time.Now().Format(TimeLayout),
		Version:       RuleDocumentVersion,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// marshalExtensionsMap writes the mapping object by hand. Marshalling a
// Go map would sort the keys and silently change rule precedence.
func marshalExtensionsMap(table domain.Table) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rule := range table {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(string(rule.Name))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		exts := rule.Extensions
		if exts == nil {
			exts = []string{}
		}
		val, err := json.Marshal(exts)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeExtensionsMap scans the mapping token by token to keep the rules
// in document order
func decodeExtensionsMap(raw json.RawMessage) (domain.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("extensions_map is not an object")
	}

	var table domain.Table
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("extensions_map key is not a string")
		}

		var exts []string
		if err := dec.Decode(&exts); err != nil {
			return nil, fmt.Errorf("category %s: %v", name, err)
		}

		table = append(table, domain.Rule{Name: domain.Category(name), Extensions: exts})
	}

	return table, nil
}

// normalizeExtensions lowercases extensions and restores a missing dot
func normalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		return nil
	}
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
