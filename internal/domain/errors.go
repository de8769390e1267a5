package domain

import "errors"

// Filesystem errors - 檔案系統層錯誤
var (
	// ErrNotFound indicates the requested path does not exist
	ErrNotFound = errors.New("path not found")

	// ErrAlreadyExists indicates the path already exists
	ErrAlreadyExists = errors.New("path already exists")

	// ErrPermissionDenied indicates insufficient permissions
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotDirectory indicates expected a directory but got a file
	ErrNotDirectory = errors.New("not a directory")

	// ErrNotFile indicates expected a file but got a directory
	ErrNotFile = errors.New("not a file")

	// ErrDirectoryNotEmpty indicates a directory removal on a non-empty directory
	ErrDirectoryNotEmpty = errors.New("directory not empty")
)

// Organize errors - 整理邏輯層錯誤
var (
	// ErrDestinationExists indicates a move target is already occupied
	ErrDestinationExists = errors.New("destination already exists")

	// ErrEmptyUndoStack indicates there is no operation left to undo
	ErrEmptyUndoStack = errors.New("nothing to undo")

	// ErrInvalidRule indicates a malformed classification rule or table
	ErrInvalidRule = errors.New("invalid classification rule")

	// ErrEmptyPattern indicates a batch rename was given a blank pattern
	ErrEmptyPattern = errors.New("empty rename pattern")

	// ErrUnknownCategory indicates a referenced category is not in the table
	ErrUnknownCategory = errors.New("unknown category")
)

// Config errors - 設定檔錯誤
var (
	// ErrConfigInvalid indicates the settings file is malformed
	ErrConfigInvalid = errors.New("invalid config")

	// ErrRuleFileInvalid indicates a rule document is missing the
	// extensions mapping or cannot be parsed
	ErrRuleFileInvalid = errors.New("invalid rules file")
)
