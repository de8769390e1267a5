package scan

import (
	"sort"
	"strings"

	"github.com/Ning0612/Sortrules/internal/dirfs"
	"github.com/Ning0612/Sortrules/internal/domain"
	"github.com/Ning0612/Sortrules/internal/logger"
)

// EmptyFolders returns directories whose own listing is empty, deepest
// first. A directory containing only empty directories is not reported;
// once its children are removed it becomes eligible on a later pass.
func EmptyFolders(dir *dirfs.Dir) ([]string, error) {
	var dirs []string
	err := dir.Walk(func(info domain.FileInfo) error {
		if info.IsDir() {
			dirs = append(dirs, info.Path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Deepest first so removal proceeds bottom-up
	sort.SliceStable(dirs, func(i, j int) bool {
		di := strings.Count(dirs[i], "/")
		dj := strings.Count(dirs[j], "/")
		if di != dj {
			return di > dj
		}
		return dirs[i] < dirs[j]
	})

	var empty []string
	for _, d := range dirs {
		entries, err := dir.List(d)
		if err != nil {
			continue // Skip folders we can't read
		}
		if len(entries) == 0 {
			empty = append(empty, d)
		}
	}

	return empty, nil
}

// RemoveResult summarizes an empty-folder cleanup
type RemoveResult struct {
	// Removed counts deleted folders
	Removed int

	// Failures lists folders that could not be removed
	Failures []domain.Failure
}

// RemoveEmptyFolders deletes the given folders. A folder that gained
// content since the scan fails its own removal and nothing else.
func RemoveEmptyFolders(dir *dirfs.Dir, folders []string) RemoveResult {
	log := logger.Get()

	var result RemoveResult
	for _, folder := range folders {
		if err := dir.Remove(folder); err != nil {
			result.Failures = append(result.Failures, domain.Failure{Path: folder, Err: err})
			log.Error("failed to remove empty folder", "folder", folder, "error", err)
			continue
		}
		result.Removed++
		log.Info("removed empty folder", "folder", folder)
	}

	return result
}
