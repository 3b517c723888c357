// Package osfilesystem provides a filesystem implementation using the os package.
package osfilesystem

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/user/yuvplay/pkg/ports"
)

// readBufferSize covers several CIF frames per read syscall.
const readBufferSize = 1 << 20

// FileSystem implements ports.FileSystem using the os package.
type FileSystem struct{}

// New creates a new FileSystem.
func New() *FileSystem {
	return &FileSystem{}
}

// Open opens a file for buffered streaming reads. "-" opens stdin.
func (fs *FileSystem) Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(bufio.NewReaderSize(os.Stdin, readBufferSize)), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &bufferedFile{Reader: bufio.NewReaderSize(f, readBufferSize), f: f}, nil
}

// ReadFile reads the entire contents of a file.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file, creating parent directories as needed.
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
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

type bufferedFile struct {
	*bufio.Reader
	f *os.File
}

func (b *bufferedFile) Close() error {
	return b.f.Close()
}

var _ ports.FileSystem = (*FileSystem)(nil)
