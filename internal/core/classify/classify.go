package classify

import (
	"path/filepath"
	"strings"

	"github.com/Ning0612/Sortrules/internal/domain"
)

// Classifier assigns file names to categories by extension
type Classifier struct {
	table    domain.Table
	byExt    map[string]domain.Category
	catchAll domain.Category
}

// New builds a classifier for the given table
// The table is expected to have passed Validate
func New(table domain.Table) *Classifier {
	catchAll, _ := table.CatchAll()

	// Precompute extension lookup in table order; the first rule
	// claiming an extension wins
	byExt := make(map[string]domain.Category)
	for _, r := range table {
		for _, ext := range r.Extensions {
			if _, taken := byExt[ext]; !taken {
				byExt[ext] = r.Name
			}
		}
	}

	return &Classifier{
		table:    table,
		byExt:    byExt,
		catchAll: catchAll,
	}
}

// Classify returns the category for a file name. Extension matching is
// case-insensitive; extension-less and unmatched names fall to the
// catch-all category.
func (c *Classifier) Classify(name string) domain.Category {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return c.catchAll
	}
	if cat, ok := c.byExt[ext]; ok {
		return cat
	}
	return c.catchAll
}

// InCategory reports whether the file name's extension belongs to the
// given category's extension set. The catch-all owns no extensions, so
// it matches nothing here.
func (c *Classifier) InCategory(name string, category domain.Category) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, r := range c.table {
		if r.Name != category {
			continue
		}
		for _, e := range r.Extensions {
			if e == ext {
				return true
			}
		}
		return false
	}
	return false
}

// Table returns the table driving this classifier
func (c *Classifier) Table() domain.Table {
	return c.table
}
