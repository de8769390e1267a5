package scan

import (
	"sort"

	"github.com/Ning0612/Sortrules/internal/dirfs"
	"github.com/Ning0612/Sortrules/internal/domain"
)

// LargeFiles returns files strictly larger than threshold bytes, largest
// first. Equal sizes order by path so results are deterministic.
func LargeFiles(dir *dirfs.Dir, threshold int64) ([]domain.FileInfo, error) {
	var results []domain.FileInfo
	err := dir.Walk(func(info domain.FileInfo) error {
		if info.IsFile() && info.Size > threshold {
			results = append(results, info)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Size != results[j].Size {
			return results[i].Size > results[j].Size
		}
		return results[i].Path < results[j].Path
	})

	return results, nil
}
