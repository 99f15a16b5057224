// Package storage defines the notes file-system abstraction.
package storage

import "time"

// FileInfo is the metadata returned by list operations.
type FileInfo struct {
	Path    string // relative to the notes root
	ModTime time.Time
}

// Provider is the interface for note file operations. All paths are
// relative to the notes root.
type Provider interface {
	// List returns metadata for every .md file under dir. Unreadable
	// entries are skipped, never aborting the listing.
	List(dir string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path; absent files are a no-op.
	Delete(path string) error
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
	// Stat returns metadata for a single file.
	Stat(path string) (FileInfo, error)
	// EnsureDir creates dir (and parents) under the root.
	EnsureDir(dir string) error
	// Root returns the absolute path of the notes root.
	Root() string
}
