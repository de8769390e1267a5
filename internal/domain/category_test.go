package domain

import (
	"errors"
	"testing"
)

func TestDefaultTable_Valid(t *testing.T) {
	table := DefaultTable()

	if err := table.Validate(); err != nil {
		t.Fatalf("DefaultTable should validate: %v", err)
	}

	catchAll, ok := table.CatchAll()
	if !ok {
		t.Fatal("DefaultTable should have a catch-all")
	}
	if catchAll != "Others" {
		t.Errorf("Expected catch-all Others, got %s", catchAll)
	}
}

func TestTableValidate(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		valid bool
	}{
		{
			name:  "empty table",
			table: Table{},
			valid: false,
		},
		{
			name: "duplicate category",
			table: Table{
				{Name: "Docs", Extensions: []string{".txt"}},
				{Name: "Docs", Extensions: []string{".pdf"}},
				{Name: "Rest", Extensions: nil},
			},
			valid: false,
		},
		{
			name: "missing catch-all",
			table: Table{
				{Name: "Docs", Extensions: []string{".txt"}},
			},
			valid: false,
		},
		{
			name: "two catch-alls",
			table: Table{
				{Name: "A", Extensions: nil},
				{Name: "B", Extensions: nil},
			},
			valid: false,
		},
		{
			name: "extension without dot",
			table: Table{
				{Name: "Docs", Extensions: []string{"txt"}},
				{Name: "Rest", Extensions: nil},
			},
			valid: false,
		},
		{
			name: "uppercase extension",
			table: Table{
				{Name: "Docs", Extensions: []string{".TXT"}},
				{Name: "Rest", Extensions: nil},
			},
			valid: false,
		},
		{
			name: "empty name",
			table: Table{
				{Name: "", Extensions: []string{".txt"}},
				{Name: "Rest", Extensions: nil},
			},
			valid: false,
		},
		{
			name: "valid table",
			table: Table{
				{Name: "Docs", Extensions: []string{".txt", ".pdf"}},
				{Name: "Rest", Extensions: nil},
			},
			valid: true,
		},
	}

	for _, tt := range tests {
		err := tt.table.Validate()
		if tt.valid && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.valid {
			if !errors.Is(err, ErrInvalidRule) {
				t.Errorf("%s: expected ErrInvalidRule, got %v", tt.name, err)
			}
		}
	}
}

func TestTableNames(t *testing.T) {
	names := DefaultTable().Names()

	expected := []Category{"Images", "Documents", "Videos", "Music", "Archives", "Programs", "Others"}
	if len(names) != len(expected) {
		t.Fatalf("Expected %d names, got %d", len(expected), len(names))
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("Names()[%d] = %s, want %s", i, names[i], name)
		}
	}
}

func TestTableContains(t *testing.T) {
	table := DefaultTable()

	if !table.Contains("Music") {
		t.Error("Expected table to contain Music")
	}
	if table.Contains("Podcasts") {
		t.Error("Did not expect table to contain Podcasts")
	}
}
