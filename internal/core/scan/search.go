package scan

import (
	"path"
	"strings"

	"github.com/Ning0612/Sortrules/internal/core/classify"
	"github.com/Ning0612/Sortrules/internal/dirfs"
	"github.com/Ning0612/Sortrules/internal/domain"
)

// Search returns every file below the root whose base name contains the
// query, case-insensitively, in walk order. An empty query matches
// everything.
func Search(dir *dirfs.Dir, query string) ([]domain.FileInfo, error) {
	needle := strings.ToLower(query)

	var results []domain.FileInfo
	err := dir.Walk(func(info domain.FileInfo) error {
		if !info.IsFile() {
			return nil
		}
		if strings.Contains(strings.ToLower(path.Base(info.Path)), needle) {
			results = append(results, info)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// FilterByCategory keeps the results whose extension belongs to the
// given category's extension set
func FilterByCategory(results []domain.FileInfo, classifier *classify.Classifier, category domain.Category) []domain.FileInfo {
	var filtered []domain.FileInfo
	for _, info := range results {
		if classifier.InCategory(path.Base(info.Path), category) {
			filtered = append(filtered, info)
		}
	}
	return filtered
}
