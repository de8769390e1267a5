package undo

import (
	"fmt"
	"os"

	"github.com/Ning0612/Sortrules/internal/domain"
	"github.com/Ning0612/Sortrules/internal/logger"
)

// Stack holds the move logs of completed organize passes, newest last.
// It lives in process memory only and is not persisted.
type Stack struct {
	ops []domain.MoveOperation
}

// NewStack creates an empty undo stack
func NewStack() *Stack {
	return &Stack{}
}

// Record pushes the move log of a completed pass. Empty logs are ignored.
func (s *Stack) Record(op domain.MoveOperation) {
	if op.Empty() {
		return
	}
	s.ops = append(s.ops, op)
}

// Len returns the number of undoable operations
func (s *Stack) Len() int {
	return len(s.ops)
}

// Result summarizes one undo
type Result struct {
	// Directory the undone pass had organized
	Directory string

	// Undone counts files moved back to their original location
	Undone int

	// Skipped lists destinations that no longer existed
	Skipped []string

	// Failures lists files that could not be moved back
	Failures []domain.Failure
}

// Undo pops the most recent operation and moves its files back, newest
// pair first. The operation is consumed even when individual pairs fail,
// so an undo never applies twice.
func (s *Stack) Undo() (Result, error) {
	if len(s.ops) == 0 {
		return Result{}, domain.ErrEmptyUndoStack
	}

	op := s.ops[len(s.ops)-1]
	s.ops = s.ops[:len(s.ops)-1]

	log := logger.Get()
	result := Result{Directory: op.Directory}

	for i := len(op.Pairs) - 1; i >= 0; i-- {
		pair := op.Pairs[i]

		if _, err := os.Stat(pair.Dest); err != nil {
			if os.IsNotExist(err) {
				result.Skipped = append(result.Skipped, pair.Dest)
				log.Warn("skipped undo, file no longer exists", "path", pair.Dest)
				continue
			}
			result.Failures = append(result.Failures, domain.Failure{Path: pair.Dest, Err: err})
			continue
		}

		if err := os.Rename(pair.Dest, pair.Source); err != nil {
			result.Failures = append(result.Failures, domain.Failure{
				Path: pair.Dest,
				Err:  fmt.Errorf("failed to move back: %w", err),
			})
			log.Error("failed to undo move", "from", pair.Dest, "to", pair.Source, "error", err)
			continue
		}

		result.Undone++
		log.Info("restored file", "path", pair.Source)
	}

	return result, nil
}
