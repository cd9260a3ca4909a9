package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem describes the filesystem operations the publish pipeline performs.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	Glob(pattern string) ([]string, error)
	RemoveAll(path string) error
	Abs(path string) (string, error)
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadDir lists directory entries sorted by file name.
func (OSFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// Glob returns the paths matching pattern.
func (OSFileSystem) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// RemoveAll deletes path and its children; a missing path is not an error.
func (OSFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Abs resolves an absolute path.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}
