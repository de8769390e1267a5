package service

import (
	"fmt"
	"io"
	"time"

	"github.com/Ning0612/Sortrules/internal/config"
	"github.com/Ning0612/Sortrules/internal/core/classify"
	"github.com/Ning0612/Sortrules/internal/core/dedup"
	"github.com/Ning0612/Sortrules/internal/core/organize"
	"github.com/Ning0612/Sortrules/internal/core/rename"
	"github.com/Ning0612/Sortrules/internal/core/scan"
	"github.com/Ning0612/Sortrules/internal/core/undo"
	"github.com/Ning0612/Sortrules/internal/dirfs"
	"github.com/Ning0612/Sortrules/internal/domain"
	"github.com/Ning0612/Sortrules/internal/history"
	"github.com/Ning0612/Sortrules/internal/logger"
	"github.com/Ning0612/Sortrules/internal/progress"
)

// Service orchestrates organize operations over one session. It owns the
// active rule table, the undo stack, and the optional operation ledger.
type Service struct {
	table      domain.Table
	classifier *classify.Classifier
	organizer  *organize.Organizer
	finder     *dedup.Finder
	undoStack  *undo.Stack
	settings   *config.Settings
	history    *history.Manager
	reporter   progress.Reporter
}

// New creates a service over the given rule table. A nil table selects
// the built-in default. The history manager is optional; nil disables
// the persistent ledger.
func New(table domain.Table, settings *config.Settings, hist *history.Manager) (*Service, error) {
	if table == nil {
		table = domain.DefaultTable()
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if settings == nil {
		settings = config.DefaultSettings()
	}

	s := &Service{
		table:     table,
		finder:    dedup.NewFinder(),
		undoStack: undo.NewStack(),
		settings:  settings,
		history:   hist,
	}
	s.install(table)
	return s, nil
}

// TableFromSettings resolves the active rule table: the imported rules
// file when the settings point at one, the built-in table otherwise.
// A rules file that fails to load falls back to the default.
func TableFromSettings(settings *config.Settings) domain.Table {
	if settings == nil || settings.RulesFile == "" {
		return domain.DefaultTable()
	}
	table, err := config.ImportTable(settings.RulesFile)
	if err != nil {
		logger.Get().Warn("failed to load rules file, using defaults",
			"path", settings.RulesFile,
			"error", err,
		)
		return domain.DefaultTable()
	}
	return table
}

// install swaps in a rule table and the components derived from it
func (s *Service) install(table domain.Table) {
	s.table = table
	s.classifier = classify.New(table)
	s.organizer = organize.New(s.classifier)
	if s.reporter != nil {
		s.organizer.SetProgressReporter(s.reporter)
	}
}

// SetProgressReporter sets the progress reporter for long operations
func (s *Service) SetProgressReporter(reporter progress.Reporter) {
	if reporter == nil {
		return
	}
	s.reporter = reporter
	s.organizer.SetProgressReporter(reporter)
	s.finder.SetProgressReporter(reporter)
}

// Settings returns the session settings for the caller to persist
func (s *Service) Settings() *config.Settings {
	return s.settings
}

// Table returns the active rule table
func (s *Service) Table() domain.Table {
	return s.table
}

// UndoDepth returns how many operations can still be undone
func (s *Service) UndoDepth() int {
	return s.undoStack.Len()
}

// Organize runs one organize pass over the directory. A pass that moved
// at least one file is recorded for undo.
func (s *Service) Organize(dirPath string) (organize.Result, error) {
	started := time.Now()

	dir, err := dirfs.New(dirPath)
	if err != nil {
		return organize.Result{}, err
	}

	result, err := s.organizer.Run(dir)
	if err != nil {
		s.recordHistory(domain.OpOrganize, dir.Root(), 0, 1, started, err.Error())
		return organize.Result{}, err
	}

	if result.Moved > 0 {
		s.undoStack.Record(result.Log)
	}

	s.settings.AddRecent(dir.Root())
	s.settings.AddActivity(domain.OpOrganize, dir.Root(), result.Moved)
	s.recordHistory(domain.OpOrganize, dir.Root(), result.Moved, len(result.Failures), started, "")

	return result, nil
}

// Undo reverses the most recent organize pass
func (s *Service) Undo() (undo.Result, error) {
	started := time.Now()

	result, err := s.undoStack.Undo()
	if err != nil {
		return undo.Result{}, err
	}

	s.settings.AddActivity(domain.OpUndo, result.Directory, result.Undone)
	s.recordHistory(domain.OpUndo, result.Directory, result.Undone, len(result.Failures), started, "")

	return result, nil
}

// Search finds files below the directory whose name contains the query.
// A non-empty category narrows the results to that category's extensions.
func (s *Service) Search(dirPath, query string, category domain.Category) ([]domain.FileInfo, error) {
	dir, err := dirfs.New(dirPath)
	if err != nil {
		return nil, err
	}

	results, err := scan.Search(dir, query)
	if err != nil {
		return nil, err
	}

	if category != "" {
		if !s.table.Contains(category) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, category)
		}
		results = scan.FilterByCategory(results, s.classifier, category)
	}

	return results, nil
}

// Stats totals the files of the directory tree
func (s *Service) Stats(dirPath string) (scan.TreeStats, error) {
	dir, err := dirfs.New(dirPath)
	if err != nil {
		return scan.TreeStats{}, err
	}
	return scan.Stats(dir)
}

// Breakdown counts the directory's immediate files per category
func (s *Service) Breakdown(dirPath string) ([]scan.CategoryCount, error) {
	dir, err := dirfs.New(dirPath)
	if err != nil {
		return nil, err
	}
	return scan.Breakdown(dir, s.classifier)
}

// FindDuplicates content-hashes the tree and reports duplicate files
func (s *Service) FindDuplicates(dirPath string) (dedup.Report, error) {
	dir, err := dirfs.New(dirPath)
	if err != nil {
		return dedup.Report{}, err
	}
	return s.finder.Scan(dir)
}

// DeleteDuplicates removes the given duplicate files
func (s *Service) DeleteDuplicates(dirPath string, paths []string) (dedup.DeleteResult, error) {
	started := time.Now()

	dir, err := dirfs.New(dirPath)
	if err != nil {
		return dedup.DeleteResult{}, err
	}

	result := dedup.Delete(dir, paths)
	s.settings.AddActivity(domain.OpDedupDelete, dir.Root(), result.Deleted)
	s.recordHistory(domain.OpDedupDelete, dir.Root(), result.Deleted, len(result.Failures), started, "")

	return result, nil
}

// LargeFiles lists files strictly larger than threshold bytes
func (s *Service) LargeFiles(dirPath string, threshold int64) ([]domain.FileInfo, error) {
	dir, err := dirfs.New(dirPath)
	if err != nil {
		return nil, err
	}
	return scan.LargeFiles(dir, threshold)
}

// EmptyFolders lists folders with no entries at all
func (s *Service) EmptyFolders(dirPath string) ([]string, error) {
	dir, err := dirfs.New(dirPath)
	if err != nil {
		return nil, err
	}
	return scan.EmptyFolders(dir)
}

// RemoveEmptyFolders deletes the given empty folders
func (s *Service) RemoveEmptyFolders(dirPath string, folders []string) (scan.RemoveResult, error) {
	started := time.Now()

	dir, err := dirfs.New(dirPath)
	if err != nil {
		return scan.RemoveResult{}, err
	}

	result := scan.RemoveEmptyFolders(dir, folders)
	s.recordHistory(domain.OpEmptyClean, dir.Root(), result.Removed, len(result.Failures), started, "")

	return result, nil
}

// BatchRename renames the directory's immediate files after the pattern
func (s *Service) BatchRename(dirPath, pattern string) (rename.Result, error) {
	started := time.Now()

	dir, err := dirfs.New(dirPath)
	if err != nil {
		return rename.Result{}, err
	}

	result, err := rename.Apply(dir, pattern)
	if err != nil {
		return rename.Result{}, err
	}

	s.settings.AddActivity(domain.OpRename, dir.Root(), result.Renamed)
	s.recordHistory(domain.OpRename, dir.Root(), result.Renamed, len(result.Failures), started, "")

	return result, nil
}

// ExportRules writes the active rule table as a rule document
func (s *Service) ExportRules(path string) error {
	if err := config.ExportTable(path, s.table); err != nil {
		return err
	}
	logger.Get().Info("exported rules", "path", path, "categories", len(s.table))
	return nil
}

// ImportRules loads a rule document and makes it the active table for
// the rest of the session. The settings remember the file so later runs
// pick it up again.
func (s *Service) ImportRules(path string) (domain.Table, error) {
	table, err := config.ImportTable(path)
	if err != nil {
		return nil, err
	}

	s.install(table)
	s.settings.RulesFile = path
	logger.Get().Info("imported rules", "path", path, "categories", len(table))

	return table, nil
}

// History lists recent ledger records, newest first. Without a ledger
// it returns nothing.
func (s *Service) History(limit int) ([]history.Record, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.List(limit)
}

// HistoryByOperation lists recent ledger records of one operation kind
func (s *Service) HistoryByOperation(op domain.OperationType, limit int) ([]history.Record, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.ListByOperation(op, limit)
}

// ClearHistory drops the ledger records and the settings activity history
func (s *Service) ClearHistory() error {
	s.settings.ClearActivity()
	if s.history == nil {
		return nil
	}
	return s.history.Clear()
}

// recordHistory writes one ledger record; ledger failures only log
func (s *Service) recordHistory(op domain.OperationType, directory string, items, failed int, started time.Time, errText string) {
	if s.history == nil {
		return
	}

	status := "success"
	if failed > 0 {
		status = "partial"
		if items == 0 {
			status = "failed"
		}
	}
	if errText == "" && failed > 0 {
		errText = fmt.Sprintf("%d items failed", failed)
	}

	record := history.Record{
		Operation:  op,
		Directory:  directory,
		Items:      items,
		Status:     status,
		Error:      errText,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if err := s.history.Save(record); err != nil {
		logger.Get().Warn("failed to record history", "operation", op, "error", err)
	}
}

// Close releases the ledger
func (s *Service) Close() error {
	if s.history == nil {
		return nil
	}
	return s.history.Close()
}

var _ io.Closer = (*Service)(nil)
