package organize

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/Ning0612/Sortrules/internal/core/classify"
	"github.com/Ning0612/Sortrules/internal/dirfs"
	"github.com/Ning0612/Sortrules/internal/domain"
	"github.com/Ning0612/Sortrules/internal/logger"
	"github.com/Ning0612/Sortrules/internal/progress"
)

// Organizer moves top-level files into their category folders
type Organizer struct {
	classifier *classify.Classifier
	reporter   progress.Reporter
}

// New creates an organizer driven by the given classifier
func New(classifier *classify.Classifier) *Organizer {
	return &Organizer{
		classifier: classifier,
		reporter:   progress.NullReporter{},
	}
}

// SetProgressReporter sets the progress reporter for organize passes
func (o *Organizer) SetProgressReporter(reporter progress.Reporter) {
	if reporter != nil {
		o.reporter = reporter
	}
}

// Result summarizes one organize pass
type Result struct {
	// Moved counts successfully relocated files
	Moved int

	// Log records every completed move in order
	Log domain.MoveOperation

	// Failures lists files that could not be moved
	Failures []domain.Failure
}

// Run executes one organize pass over the directory. Only regular files
// with an extension are considered; subdirectories and extension-less
// files stay where they are. Per-file move errors are collected, not fatal.
func (o *Organizer) Run(dir *dirfs.Dir) (Result, error) {
	log := logger.Get()

	// Category folders come first; failure here aborts the pass
	if err := o.ensureCategoryFolders(dir, log); err != nil {
		return Result{}, err
	}

	entries, err := dir.List(".")
	if err != nil {
		return Result{}, err
	}

	var candidates []domain.FileInfo
	for _, entry := range entries {
		if !entry.IsFile() {
			continue
		}
		if filepath.Ext(entry.Path) == "" {
			continue
		}
		candidates = append(candidates, entry)
	}

	result := Result{Log: domain.MoveOperation{Directory: dir.Root()}}

	o.reporter.Begin(string(domain.OpOrganize), len(candidates))
	defer o.reporter.Done()

	for _, entry := range candidates {
		name := entry.Path
		category := o.classifier.Classify(name)
		dstRel := path.Join(string(category), name)

		srcAbs, err := dir.Abs(name)
		if err != nil {
			result.Failures = append(result.Failures, domain.Failure{Path: name, Err: err})
			o.reporter.Error(name, err)
			o.reporter.Step(name)
			continue
		}
		dstAbs, err := dir.Abs(dstRel)
		if err != nil {
			result.Failures = append(result.Failures, domain.Failure{Path: name, Err: err})
			o.reporter.Error(name, err)
			o.reporter.Step(name)
			continue
		}

		// Never overwrite: an occupied destination is a per-file failure
		occupied, err := dir.Exists(dstRel)
		if err != nil {
			result.Failures = append(result.Failures, domain.Failure{Path: name, Err: err})
			log.Error("failed to check destination", "file", name, "error", err)
			o.reporter.Error(name, err)
			o.reporter.Step(name)
			continue
		}
		if occupied {
			result.Failures = append(result.Failures, domain.Failure{Path: name, Err: domain.ErrDestinationExists})
			log.Warn("skipped file, destination occupied", "file", name, "category", category)
			o.reporter.Error(name, domain.ErrDestinationExists)
			o.reporter.Step(name)
			continue
		}

		if err := dir.Move(name, dstRel); err != nil {
			result.Failures = append(result.Failures, domain.Failure{Path: name, Err: err})
			log.Error("failed to move file", "file", name, "category", category, "error", err)
			o.reporter.Error(name, err)
			o.reporter.Step(name)
			continue
		}

		result.Log.Pairs = append(result.Log.Pairs, domain.MovePair{Source: srcAbs, Dest: dstAbs})
		result.Moved++
		log.Info("moved file", "file", name, "category", category)
		o.reporter.Step(name)
	}

	return result, nil
}

// ensureCategoryFolders creates one folder per category in table order
func (o *Organizer) ensureCategoryFolders(dir *dirfs.Dir, log logger.Logger) error {
	for _, name := range o.classifier.Table().Names() {
		exists, err := dir.Exists(string(name))
		if err != nil {
			return fmt.Errorf("failed to check category folder %s: %w", name, err)
		}
		if exists {
			continue
		}
		if err := dir.Mkdir(string(name)); err != nil {
			return fmt.Errorf("failed to create category folder %s: %w", name, err)
		}
		log.Info("created category folder", "category", name)
	}
	return nil
}
