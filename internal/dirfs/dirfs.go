package dirfs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ning0612/Sortrules/internal/domain"
)

// Dir provides rooted access to one directory tree. All paths passed to
// its methods are relative to the root and may not escape it.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given directory
// root must point to an existing directory
func New(root string) (*Dir, error) {
	// Convert to absolute path
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	// Verify root exists and is a directory
	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, domain.ErrNotDirectory
	}

	return &Dir{root: absRoot}, nil
}

// Root returns the absolute root path of this Dir
func (d *Dir) Root() string {
	return d.root
}

// Abs safely resolves a relative path to an absolute path within root
// Returns an error if the path attempts to escape the root directory
func (d *Dir) Abs(relPath string) (string, error) {
	// Handle empty path as root
	if relPath == "" || relPath == "." {
		return d.root, nil
	}

	// Normalize path separators
	relPath = filepath.FromSlash(relPath)

	// Clean the path to remove . and ..
	relPath = filepath.Clean(relPath)

	// Reject absolute paths
	if filepath.IsAbs(relPath) {
		return "", domain.ErrPermissionDenied
	}

	// Join with root
	fullPath := filepath.Join(d.root, relPath)

	// Use filepath.Rel to safely verify the path is within root
	// This handles edge cases like root="C:\root" and fullPath="C:\root2"
	rel, err := filepath.Rel(d.root, fullPath)
	if err != nil {
		return "", domain.ErrPermissionDenied
	}

	// If rel starts with "..", it's outside root
	if strings.HasPrefix(rel, "..") {
		return "", domain.ErrPermissionDenied
	}

	return fullPath, nil
}

// List returns the entries directly under the given path, one level deep
func (d *Dir) List(path string) ([]domain.FileInfo, error) {
	fullPath, err := d.Abs(path)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, d.mapError(err)
	}

	result := make([]domain.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue // Skip entries we can't read
		}

		entryPath := filepath.Join(path, entry.Name())
		result = append(result, d.fileInfoFromOS(entryPath, info))
	}

	return result, nil
}

// WalkFunc is invoked once per entry visited by Walk
type WalkFunc func(info domain.FileInfo) error

// Walk visits every entry below the root in lexical order, root excluded.
// Unreadable entries and subtrees are skipped rather than aborting the walk.
func (d *Dir) Walk(fn WalkFunc) error {
	return filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == d.root {
				return d.mapError(err)
			}
			return nil // Skip entries we can't read
		}
		if path == d.root {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return nil
		}

		return fn(d.fileInfoFromOS(rel, info))
	})
}

// Open opens a file for reading
func (d *Dir) Open(path string) (io.ReadCloser, error) {
	fullPath, err := d.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, d.mapError(err)
	}
	if info.IsDir() {
		return nil, domain.ErrNotFile
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, d.mapError(err)
	}

	return file, nil
}

// Stat returns metadata for a single path
func (d *Dir) Stat(path string) (domain.FileInfo, error) {
	fullPath, err := d.Abs(path)
	if err != nil {
		return domain.FileInfo{}, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return domain.FileInfo{}, d.mapError(err)
	}

	return d.fileInfoFromOS(path, info), nil
}

// Move renames a file or directory within the root.
// The destination parent must already exist; an existing destination
// is silently replaced, so callers check Exists first when that matters.
func (d *Dir) Move(srcPath, dstPath string) error {
	src, err := d.Abs(srcPath)
	if err != nil {
		return err
	}
	dst, err := d.Abs(dstPath)
	if err != nil {
		return err
	}

	if err := os.Rename(src, dst); err != nil {
		return d.mapError(err)
	}
	return nil
}

// Remove deletes a file or empty directory
func (d *Dir) Remove(path string) error {
	fullPath, err := d.Abs(path)
	if err != nil {
		return err
	}

	return d.mapError(os.Remove(fullPath))
}

// Mkdir creates a directory and any necessary parents
func (d *Dir) Mkdir(path string) error {
	fullPath, err := d.Abs(path)
	if err != nil {
		return err
	}

	return os.MkdirAll(fullPath, 0755)
}

// Exists checks if a path exists
func (d *Dir) Exists(path string) (bool, error) {
	fullPath, err := d.Abs(path)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(fullPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// fileInfoFromOS converts os.FileInfo to domain.FileInfo
func (d *Dir) fileInfoFromOS(path string, info os.FileInfo) domain.FileInfo {
	fileType := domain.FileTypeRegular
	if info.IsDir() {
		fileType = domain.FileTypeDirectory
	} else if info.Mode()&os.ModeSymlink != 0 {
		fileType = domain.FileTypeSymlink
	}

	return domain.FileInfo{
		Path:    filepath.ToSlash(path), // Normalize to forward slashes
		Type:    fileType,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

// mapError converts OS errors to domain errors
func (d *Dir) mapError(err error) error {
	if err == nil {
		return nil
	}

	if os.IsNotExist(err) {
		return domain.ErrNotFound
	}
	if os.IsPermission(err) {
		return domain.ErrPermissionDenied
	}
	if os.IsExist(err) {
		return domain.ErrAlreadyExists
	}

	// Check for directory not empty (platform specific)
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		if strings.Contains(pathErr.Err.Error(), "not empty") ||
			strings.Contains(pathErr.Err.Error(), "directory not empty") {
			return domain.ErrDirectoryNotEmpty
		}
	}

	return err
}
