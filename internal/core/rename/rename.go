package rename

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Ning0612/Sortrules/internal/dirfs"
	"github.com/Ning0612/Sortrules/internal/domain"
	"github.com/Ning0612/Sortrules/internal/logger"
)

// Result summarizes one batch rename pass
type Result struct {
	// Renamed counts successfully renamed files
	Renamed int

	// Skipped lists files left alone because their target name was taken
	Skipped []string

	// Failures lists files whose rename failed
	Failures []domain.Failure
}

// Apply renames the immediate files of the directory after the pattern,
// keeping each file's original extension. Placeholder runs expand to a
// 1-based counter: ### to three zero-padded digits, ## to two, # to the
// bare number. Numbers follow the initial listing order and are not
// re-assigned when a rename is skipped, so a collision leaves a hole in
// the sequence rather than shifting later files. Renames cannot be undone.
func Apply(dir *dirfs.Dir, pattern string) (Result, error) {
	if strings.TrimSpace(pattern) == "" {
		return Result{}, domain.ErrEmptyPattern
	}

	log := logger.Get()

	entries, err := dir.List(".")
	if err != nil {
		return Result{}, err
	}

	// Snapshot the files before touching anything; numbering is fixed
	// against this listing even when individual renames are skipped
	var files []string
	for _, entry := range entries {
		if entry.IsFile() {
			files = append(files, entry.Path)
		}
	}

	var result Result
	for i, name := range files {
		newName := Expand(pattern, i+1) + filepath.Ext(name)

		// The exists check also covers a file already carrying its
		// target name; renaming onto itself counts as a skip
		occupied, err := dir.Exists(newName)
		if err != nil {
			result.Failures = append(result.Failures, domain.Failure{Path: name, Err: err})
			log.Error("failed to check rename target", "file", name, "error", err)
			continue
		}
		if occupied {
			result.Skipped = append(result.Skipped, name)
			log.Warn("skipped rename, target name occupied", "file", name, "target", newName)
			continue
		}

		if err := dir.Move(name, newName); err != nil {
			result.Failures = append(result.Failures, domain.Failure{Path: name, Err: err})
			log.Error("failed to rename file", "file", name, "target", newName, "error", err)
			continue
		}

		result.Renamed++
		log.Info("renamed file", "from", name, "to", newName)
	}

	return result, nil
}

// Expand replaces the numbering placeholders in the pattern with index.
// Longer runs are replaced first so ### never expands as three single #.
func Expand(pattern string, index int) string {
	out := strings.ReplaceAll(pattern, "###", fmt.Sprintf("%03d", index))
	out = strings.ReplaceAll(out, "##", fmt.Sprintf("%02d", index))
	return strings.ReplaceAll(out, "#", strconv.Itoa(index))
}
