package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ning0612/Sortrules/internal/config"
	"github.com/Ning0612/Sortrules/internal/domain"
	"github.com/Ning0612/Sortrules/internal/testutil"
)

func TestLoadSettings_MissingFile(t *testing.T) {
	root, cleanup := testutil.TempDir(t)
	defer cleanup()

	s, err := config.LoadSettings(filepath.Join(root, "config.json"))
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if s.Theme != "blue" {
		t.Errorf("Expected default theme blue, got %s", s.Theme)
	}
	if s.Mode != "Light" {
		t.Errorf("Expected default mode Light, got %s", s.Mode)
	}
	if s.RecentFolders == nil || len(s.RecentFolders) != 0 {
		t.Errorf("Expected empty recent folders, got %v", s.RecentFolders)
	}
	if s.ActivityHistory == nil || len(s.ActivityHistory) != 0 {
		t.Errorf("Expected empty activity history, got %v", s.ActivityHistory)
	}
}

func TestSettings_SaveLoadRoundTrip(t *testing.T) {
	root, cleanup := testutil.TempDir(t)
	defer cleanup()

	path := filepath.Join(root, "config.json")

	s := config.DefaultSettings()
	s.Mode = "Dark"
	s.RulesFile = "/data/rules.json"
	s.AddRecent("/home/user/Downloads")
	s.AddActivity(domain.OpOrganize, "/home/user/Downloads", 12)

	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := config.LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if loaded.Mode != "Dark" {
		t.Errorf("Expected mode Dark, got %s", loaded.Mode)
	}
	if loaded.RulesFile != "/data/rules.json" {
		t.Errorf("Expected rules file to survive, got %s", loaded.RulesFile)
	}
	if len(loaded.RecentFolders) != 1 || loaded.RecentFolders[0] != "/home/user/Downloads" {
		t.Errorf("Expected one recent folder, got %v", loaded.RecentFolders)
	}
	if len(loaded.ActivityHistory) != 1 {
		t.Fatalf("Expected one activity entry, got %v", loaded.ActivityHistory)
	}
	act := loaded.ActivityHistory[0]
	if act.Type != "organize" || act.FilesMoved != 12 {
		t.Errorf("Activity entry not preserved: %+v", act)
	}
	if act.Timestamp == "" {
		t.Error("Activity entry should carry a timestamp")
	}
}

func TestLoadSettings_PartialDocument(t *testing.T) {
	root, cleanup := testutil.TempDir(t)
	defer cleanup()

	path := filepath.Join(root, "config.json")
	if err := os.WriteFile(path, []byte(`{"theme": "teal"}`), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	s, err := config.LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if s.Theme != "teal" {
		t.Errorf("Expected theme teal, got %s", s.Theme)
	}
	if s.Mode != "Light" {
		t.Errorf("Absent mode should default to Light, got %s", s.Mode)
	}
	if s.RecentFolders == nil {
		t.Error("Absent recent folders should default to an empty list")
	}
}

func TestLoadSettings_Malformed(t *testing.T) {
	root, cleanup := testutil.TempDir(t)
	defer cleanup()

	path := filepath.Join(root, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	_, err := config.LoadSettings(path)
	if !errors.Is(err, domain.ErrConfigInvalid) {
		t.Errorf("Expected ErrConfigInvalid, got %v", err)
	}
}

func TestAddRecent_CapAndDedup(t *testing.T) {
	s := config.DefaultSettings()

	folders := []string{"/a", "/b", "/c", "/d", "/e", "/f", "/g"}
	for _, f := range folders {
		s.AddRecent(f)
	}

	if len(s.RecentFolders) != 5 {
		t.Fatalf("Expected 5 recent folders, got %d", len(s.RecentFolders))
	}
	// Oldest entries are evicted first
	want := []string{"/c", "/d", "/e", "/f", "/g"}
	for i, f := range want {
		if s.RecentFolders[i] != f {
			t.Errorf("Expected %s at %d, got %s", f, i, s.RecentFolders[i])
		}
	}

	// Re-adding a listed folder changes nothing
	s.AddRecent("/d")
	if len(s.RecentFolders) != 5 || s.RecentFolders[1] != "/d" {
		t.Errorf("Re-adding existing folder should not reorder: %v", s.RecentFolders)
	}
}

func TestOrganizeTotals(t *testing.T) {
	s := config.DefaultSettings()
	s.AddActivity(domain.OpOrganize, "/a", 10)
	s.AddActivity(domain.OpOrganize, "/b", 5)
	s.AddActivity(domain.OpRename, "/a", 3)

	files, runs := s.OrganizeTotals()
	if files != 15 {
		t.Errorf("Expected 15 files, got %d", files)
	}
	if runs != 2 {
		t.Errorf("Expected 2 runs, got %d", runs)
	}
}

func TestClearActivity(t *testing.T) {
	s := config.DefaultSettings()
	s.AddActivity(domain.OpOrganize, "/a", 1)

	s.ClearActivity()
	if len(s.ActivityHistory) != 0 {
		t.Errorf("Expected empty history, got %v", s.ActivityHistory)
	}
}

func TestSettingsPath_Explicit(t *testing.T) {
	want := filepath.Join("some", "where", "settings.json")
	if got := config.SettingsPath(want); got != want {
		t.Errorf("Expected explicit path %s, got %s", want, got)
	}
}
