package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Ning0612/Sortrules/internal/domain"
)

// TimeLayout is the timestamp format used in settings and rule documents
const TimeLayout = "2006-01-02 15:04:05"

// maxRecentFolders caps the recent-folder list
const maxRecentFolders = 5

// ActivityEntry records one completed operation for the history view
type ActivityEntry struct {
	Type       string `mapstructure:"type" json:"type"`
	Folder     string `mapstructure:"folder" json:"folder"`
	FilesMoved int    `mapstructure:"files_moved" json:"files_moved"`
	Timestamp  string `mapstructure:"timestamp" json:"timestamp"`
}

// Settings represents the persisted application settings
type Settings struct {
	Theme           string          `mapstructure:"theme" json:"theme"`
	Mode            string          `mapstructure:"mode" json:"mode"`
	RecentFolders   []string        `mapstructure:"recent_folders" json:"recent_folders"`
	ActivityHistory []ActivityEntry `mapstructure:"activity_history" json:"activity_history"`

	// RulesFile points at an imported rule document; empty means the
	// built-in table is in use
	RulesFile string `mapstructure:"rules_file" json:"rules_file,omitempty"`
}

// DefaultSettings returns the settings used when no file exists yet
func DefaultSettings() *Settings {
	return &Settings{
		Theme:           "blue",
		Mode:            "Light",
		RecentFolders:   []string{},
		ActivityHistory: []ActivityEntry{},
	}
}

// DefaultSettingsPaths returns the default paths to search for the settings file
func DefaultSettingsPaths() []string {
	paths := []string{"."}

	// Add user config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "sortrules"))
	}

	// Add home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".sortrules"))
	}

	return paths
}

// SettingsPath resolves where settings are persisted: the explicit path
// when given, the first existing file from the search paths otherwise,
// or the user config directory location for a fresh install. The search
// order matches LoadSettings so a load/save pair hits the same file.
func SettingsPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, p := range DefaultSettingsPaths() {
		candidate := filepath.Join(p, "config.json")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "sortrules", "config.json")
	}
	return "config.json"
}

// LoadSettings reads and parses the settings file
// If path is empty, searches default locations for config.json
// A missing file is not an error; it yields the defaults
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()

	if path != "" {
		// Use specific file
		v.SetConfigFile(path)
		v.SetConfigType("json")
	} else {
		// Search default paths
		v.SetConfigName("config")
		v.SetConfigType("json")
		for _, p := range DefaultSettingsPaths() {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultSettings(), nil
		}
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigInvalid, err)
	}

	// Absent keys fall back to their defaults
	if s.Theme == "" {
		s.Theme = "blue"
	}
	if s.Mode == "" {
		s.Mode = "Light"
	}
	if s.RecentFolders == nil {
		s.RecentFolders = []string{}
	}
	if s.ActivityHistory == nil {
		s.ActivityHistory = []ActivityEntry{}
	}

	return &s, nil
}

// Save writes the settings to path, atomically replacing any previous file
func (s *Settings) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	// Write to temp file first for atomic operation
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp settings file: %w", err)
	}

	// Atomic rename to final path
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename settings file: %w", err)
	}

	return nil
}

// AddRecent records a folder in the recent list. A folder already listed
// stays where it is; growing past the cap evicts the oldest entry.
func (s *Settings) AddRecent(folder string) {
	for _, f := range s.RecentFolders {
		if f == folder {
			return
		}
	}
	s.RecentFolders = append(s.RecentFolders, folder)
	if len(s.RecentFolders) > maxRecentFolders {
		s.RecentFolders = s.RecentFolders[1:]
	}
}

// AddActivity appends one operation record to the activity history
func (s *Settings) AddActivity(op domain.OperationType, folder string, filesMoved int) {
	s.ActivityHistory = append(s.ActivityHistory, ActivityEntry{
		Type:       string(op),
		Folder:     folder,
		FilesMoved: filesMoved,
		Timestamp:  time.Now().Format(TimeLayout),
	})
}

// ClearActivity drops the whole activity history
func (s *Settings) ClearActivity() {
	s.ActivityHistory = []ActivityEntry{}
}

// OrganizeTotals sums the organize entries of the activity history,
// returning total files moved and the number of organize runs
func (s *Settings) OrganizeTotals() (files, runs int) {
	for _, act := range s.ActivityHistory {
		if act.Type == string(domain.OpOrganize) {
			files += act.FilesMoved
			runs++
		}
	}
	return files, runs
}
