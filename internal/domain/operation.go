package domain

// OperationType identifies a tree-mutating operation kind
type OperationType string

const (
	OpOrganize    OperationType = "organize"
	OpUndo        OperationType = "undo"
	OpDedupDelete OperationType = "dedup-delete"
	OpRename      OperationType = "rename"
	OpEmptyClean  OperationType = "empty-clean"
)

// IsValid checks if the operation type is a known value
func (o OperationType) IsValid() bool {
	switch o {
	case OpOrganize, OpUndo, OpDedupDelete, OpRename, OpEmptyClean:
		return true
	}
	return false
}

// MovePair records one completed file move
type MovePair struct {
	// Source is the absolute path before the move
	Source string

	// Dest is the absolute path after the move
	Dest string
}

// MoveOperation is the ordered move log of one organize pass.
// Paths are absolute so the record stays valid on its own.
type MoveOperation struct {
	// Directory is the absolute path of the organized directory
	Directory string

	// Pairs in completion order
	Pairs []MovePair
}

// Empty returns true if the pass moved nothing
func (op MoveOperation) Empty() bool {
	return len(op.Pairs) == 0
}

// Failure records a per-item error that did not abort the pass
type Failure struct {
	// Path identifies the item the error applies to
	Path string

	// Err is the underlying cause
	Err error
}
