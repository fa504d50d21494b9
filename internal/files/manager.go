package files

import (
	"fmt"
	"os"
	"path/filepath"
)

// Manager creates output files.
type Manager struct {
	dryRun bool
}

// NewManager creates a file manager. With dryRun set, committed files are
// discarded instead of renamed into place.
func NewManager(dryRun bool) *Manager {
	return &Manager{dryRun: dryRun}
}

// EnsureDirectory ensures a directory exists, creating it if necessary
func (m *Manager) EnsureDirectory(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// AtomicFile is a temporary file renamed to its target on Commit.
type AtomicFile struct {
	*os.File
	target string
	dryRun bool
	done   bool
}

// Create opens a temporary file next to path. In dry-run mode the file is
// created in the system temp directory and the target directory is left alone.
func (m *Manager) Create(path string) (*AtomicFile, error) {
	dir := os.TempDir()
	if !m.dryRun {
		dir = filepath.Dir(path)
		if err := m.EnsureDirectory(dir); err != nil {
			return nil, err
		}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	return &AtomicFile{File: tmp, target: path, dryRun: m.dryRun}, nil
}

// Commit closes the file and moves it into place.
func (f *AtomicFile) Commit() error {
	if f.done {
		return nil
	}
	f.done = true

	if err := f.File.Close(); err != nil {
		os.Remove(f.File.Name())
		return fmt.Errorf("failed to close %s: %w", f.target, err)
	}
	if f.dryRun {
		return os.Remove(f.File.Name())
	}
	if err := os.Rename(f.File.Name(), f.target); err != nil {
		os.Remove(f.File.Name())
		return fmt.Errorf("failed to move output into place %s: %w", f.target, err)
	}
	return nil
}

// Abort discards the file. It is a no-op after Commit.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.File.Close()
	os.Remove(f.File.Name())
}
