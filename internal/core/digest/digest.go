package digest

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
)

// Algorithm represents the hashing algorithm to use
type Algorithm string

const (
	// MD5 algorithm (legacy, kept for compatibility tooling)
	MD5 Algorithm = "md5"
	// SHA256 algorithm (recommended default)
	SHA256 Algorithm = "sha256"
)

// DefaultAlgorithm is what duplicate detection uses
const DefaultAlgorithm = SHA256

// Options configures the hasher
type Options struct {
	// BufferSize: size of buffer for streaming reads
	// Default: 32KB
	BufferSize int
}

// DefaultOptions returns the recommended default options
func DefaultOptions() Options {
	return Options{
		BufferSize: 32 * 1024, // 32KB
	}
}

// Hasher computes content digests
type Hasher interface {
	// Sum computes the hex-encoded digest of everything in the reader
	Sum(reader io.Reader, algo Algorithm) (string, error)
}

// DefaultHasher implements Hasher with streaming support
type DefaultHasher struct {
	opts Options
}

// NewHasher creates a new hasher with the given options
func NewHasher(opts Options) *DefaultHasher {
	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultOptions().BufferSize
	}
	return &DefaultHasher{opts: opts}
}

// NewDefaultHasher creates a hasher with default options
func NewDefaultHasher() *DefaultHasher {
	return NewHasher(DefaultOptions())
}

// Sum implements the Hasher interface
func (d *DefaultHasher) Sum(reader io.Reader, algo Algorithm) (string, error) {
	var h hash.Hash
	switch algo {
	case MD5:
		h = md5.New()
	case SHA256:
		h = sha256.New()
	default:
		return "", fmt.Errorf("unsupported algorithm: %s", algo)
	}

	// Stream the data through the hasher; whole-file digests are required
	// for duplicate detection, so there is no size cutoff here
	buffer := make([]byte, d.opts.BufferSize)
	if _, err := io.CopyBuffer(h, reader, buffer); err != nil {
		return "", fmt.Errorf("read error: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// IsSupported checks if the given algorithm is supported
func IsSupported(algo Algorithm) bool {
	switch algo {
	case MD5, SHA256:
		return true
	default:
		return false
	}
}
