// Package fs provides file-based sources and output for locator.
package fs

import (
	"os"
	"path/filepath"
)

// AtomicFile is an output file that only appears at its final path once
// Commit succeeds. Writes go to a temporary file next to it.
type AtomicFile struct {
	path string
	tmp  *os.File
}

// CreateAtomic opens a temporary file for path, creating parent
// directories as needed.
func CreateAtomic(path string) (*AtomicFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	tmp, err := os.Create(path + ".tmp")
	if err != nil {
		return nil, err
	}
	return &AtomicFile{path: path, tmp: tmp}, nil
}

// Name returns the final path.
func (f *AtomicFile) Name() string {
	return f.path
}

func (f *AtomicFile) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Commit flushes the temporary file and renames it over the final path.
func (f *AtomicFile) Commit() error {
	if err := f.tmp.Sync(); err != nil {
		_ = f.Abort()
		return err
	}
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(f.tmp.Name())
		return err
	}
	return os.Rename(f.tmp.Name(), f.path)
}

// Abort discards everything written. Abort after Commit is a no-op.
func (f *AtomicFile) Abort() error {
	_ = f.tmp.Close()
	if err := os.Remove(f.tmp.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
