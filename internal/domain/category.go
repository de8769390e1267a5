package domain

import "strings"

// Category names a destination folder files are organized into
type Category string

// Rule binds a category to the file extensions it claims
type Rule struct {
	// Name is the category and the folder name created for it
	Name Category

	// Extensions claimed by this category, lowercase with leading dot.
	// An empty set marks the catch-all category.
	Extensions []string
}

// IsCatchAll returns true if this rule claims everything left over
func (r Rule) IsCatchAll() bool {
	return len(r.Extensions) == 0
}

// Table is an ordered list of classification rules. Order is significant:
// classification picks the first rule whose extension set matches.
type Table []Rule

// DefaultTable returns the built-in classification rules
func DefaultTable() Table {
	return Table{
		{Name: "Images", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".svg"}},
		{Name: "Documents", Extensions: []string{".pdf", ".docx", ".txt", ".xlsx", ".pptx", ".doc", ".xls", ".ppt"}},
		{Name: "Videos", Extensions: []string{".mp4", ".mkv", ".mov", ".avi", ".wmv", ".flv", ".mpv"}},
		{Name: "Music", Extensions: []string{".mp3", ".wav", ".flac", ".aac", ".ogg", ".wma"}},
		{Name: "Archives", Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz", ".bz2"}},
		{Name: "Programs", Extensions: []string{".exe", ".msi", ".apk", ".dmg", ".deb"}},
		{Name: "Others", Extensions: nil},
	}
}

// Validate checks if the table is properly configured
func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrInvalidRule
	}
	seen := make(map[Category]bool, len(t))
	catchAll := 0
	for _, r := range t {
		if r.Name == "" {
			return ErrInvalidRule
		}
		if seen[r.Name] {
			return ErrInvalidRule // duplicate category name
		}
		seen[r.Name] = true
		if r.IsCatchAll() {
			catchAll++
			continue
		}
		for _, ext := range r.Extensions {
			if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
				return ErrInvalidRule
			}
			if ext != strings.ToLower(ext) {
				return ErrInvalidRule // extensions must be normalized lowercase
			}
		}
	}
	if catchAll != 1 {
		return ErrInvalidRule // exactly one catch-all required
	}
	return nil
}

// CatchAll returns the catch-all category of the table
func (t Table) CatchAll() (Category, bool) {
	for _, r := range t {
		if r.IsCatchAll() {
			return r.Name, true
		}
	}
	return "", false
}

// Contains reports whether the table defines the given category
func (t Table) Contains(name Category) bool {
	for _, r := range t {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Names returns the category names in table order
func (t Table) Names() []Category {
	names := make([]Category, 0, len(t))
	for _, r := range t {
		names = append(names, r.Name)
	}
	return names
}
