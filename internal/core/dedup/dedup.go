package dedup

import (
	"github.com/Ning0612/Sortrules/internal/core/digest"
	"github.com/Ning0612/Sortrules/internal/dirfs"
	"github.com/Ning0612/Sortrules/internal/domain"
	"github.com/Ning0612/Sortrules/internal/logger"
	"github.com/Ning0612/Sortrules/internal/progress"
)

// Finder detects files with identical content below a directory
type Finder struct {
	hasher   digest.Hasher
	algo     digest.Algorithm
	reporter progress.Reporter
}

// NewFinder creates a finder using the default digest algorithm
func NewFinder() *Finder {
	return &Finder{
		hasher:   digest.NewDefaultHasher(),
		algo:     digest.DefaultAlgorithm,
		reporter: progress.NullReporter{},
	}
}

// SetProgressReporter sets the progress reporter for scans
func (f *Finder) SetProgressReporter(reporter progress.Reporter) {
	if reporter != nil {
		f.reporter = reporter
	}
}

// Report lists the outcome of a duplicate scan
type Report struct {
	// Duplicates in discovery order. The first copy of each content
	// digest is never listed, so deleting everything here is safe.
	Duplicates []string

	// Originals maps each duplicate to the first-seen copy of its content
	Originals map[string]string

	// Skipped lists files that could not be read
	Skipped []string
}

// Scan walks the whole tree and hashes every regular file. Walk order is
// lexical, so the retained copy of each content group is deterministic.
func (f *Finder) Scan(dir *dirfs.Dir) (Report, error) {
	var files []string
	err := dir.Walk(func(info domain.FileInfo) error {
		if info.IsFile() {
			files = append(files, info.Path)
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	log := logger.Get()
	report := Report{Originals: make(map[string]string)}
	seen := make(map[string]string)

	f.reporter.Begin("duplicate-scan", len(files))
	defer f.reporter.Done()

	for _, path := range files {
		reader, err := dir.Open(path)
		if err != nil {
			report.Skipped = append(report.Skipped, path)
			log.Warn("skipped unreadable file", "file", path, "error", err)
			f.reporter.Step(path)
			continue
		}

		sum, err := f.hasher.Sum(reader, f.algo)
		reader.Close()
		if err != nil {
			report.Skipped = append(report.Skipped, path)
			log.Warn("failed to hash file", "file", path, "error", err)
			f.reporter.Step(path)
			continue
		}

		if first, ok := seen[sum]; ok {
			report.Duplicates = append(report.Duplicates, path)
			report.Originals[path] = first
		} else {
			seen[sum] = path
		}
		f.reporter.Step(path)
	}

	return report, nil
}

// DeleteResult summarizes a duplicate deletion
type DeleteResult struct {
	// Deleted counts removed files
	Deleted int

	// Failures lists files that could not be removed
	Failures []domain.Failure
}

// Delete removes exactly the given paths. Retained copies are never
// touched because they are never part of a scan's duplicate list.
func Delete(dir *dirfs.Dir, paths []string) DeleteResult {
	log := logger.Get()

	var result DeleteResult
	for _, path := range paths {
		if err := dir.Remove(path); err != nil {
			result.Failures = append(result.Failures, domain.Failure{Path: path, Err: err})
			log.Error("failed to delete duplicate", "file", path, "error", err)
			continue
		}
		result.Deleted++
		log.Info("deleted duplicate", "file", path)
	}

	return result
}
