// Package osfilesystem provides a filesystem implementation using the os package.
package osfilesystem

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/user/imgload/pkg/ports"
)

// ErrTooLarge is returned by ReadFile for files above the size limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// FileSystem implements ports.FileSystem using the os package.
type FileSystem struct {
	maxBytes int64
}

// New creates a FileSystem. Reads of files larger than maxBytes fail with
// ErrTooLarge; zero or less disables the limit.
func New(maxBytes int64) *FileSystem {
	return &FileSystem{maxBytes: maxBytes}
}

// ReadFile reads the entire contents of a file, honouring the size limit.
// Files that grow while being read are cut off at the limit and rejected.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	if fs.maxBytes <= 0 {
		return os.ReadFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}
	if info.Size() > fs.maxBytes {
		return nil, fmt.Errorf("%s: %d bytes: %w", path, info.Size(), ErrTooLarge)
	}

	data, err := io.ReadAll(io.LimitReader(f, fs.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > fs.maxBytes {
		return nil, fmt.Errorf("%s: %w", path, ErrTooLarge)
	}
	return data, nil
}

// WriteFile writes data to a file, creating parent directories.
func (fs *FileSystem) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// MkdirAll creates a directory and all parent directories.
func (fs *FileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// Exists checks if a file or directory exists.
func (fs *FileSystem) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

var _ ports.FileSystem = (*FileSystem)(nil)
