package scan

import (
	"github.com/Ning0612/Sortrules/internal/core/classify"
	"github.com/Ning0612/Sortrules/internal/dirfs"
	"github.com/Ning0612/Sortrules/internal/domain"
)

// TreeStats totals the regular files of a directory tree
type TreeStats struct {
	Files     int
	TotalSize int64
}

// Stats walks the whole tree and totals file count and size
func Stats(dir *dirfs.Dir) (TreeStats, error) {
	var stats TreeStats
	err := dir.Walk(func(info domain.FileInfo) error {
		if info.IsFile() {
			stats.Files++
			stats.TotalSize += info.Size
		}
		return nil
	})
	if err != nil {
		return TreeStats{}, err
	}

	return stats, nil
}

// CategoryCount pairs a category with its file count
type CategoryCount struct {
	Category domain.Category
	Count    int
}

// Breakdown counts the immediate files of the directory per category, in
// table order with zero counts included. Extension-less and unmatched
// files count toward the catch-all.
func Breakdown(dir *dirfs.Dir, classifier *classify.Classifier) ([]CategoryCount, error) {
	entries, err := dir.List(".")
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.Category]int)
	for _, entry := range entries {
		if !entry.IsFile() {
			continue
		}
		counts[classifier.Classify(entry.Path)]++
	}

	breakdown := make([]CategoryCount, 0, len(classifier.Table()))
	for _, name := range classifier.Table().Names() {
		breakdown = append(breakdown, CategoryCount{Category: name, Count: counts[name]})
	}

	return breakdown, nil
}
