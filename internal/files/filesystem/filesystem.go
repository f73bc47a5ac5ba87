package filesystem

import "io/fs"

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// Provider is the filesystem surface the rest of the application depends on.
type Provider interface {
	// ReadFile reads the file at the given path.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to the given path, replacing any existing file.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// Stat returns file information for the given path.
	Stat(path string) (FileInfo, error)
}
