package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Workspace lays out the input files of one run under a temporary directory.
type Workspace struct {
	Root             string
	SourceDir        string
	PersonsFile      string
	InstitutionsFile string
}

// NewWorkspace creates the directory layout used by the command defaults.
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()

	root := t.TempDir()
	ws := &Workspace{
		Root:             root,
		SourceDir:        filepath.Join(root, "source_files"),
		PersonsFile:      filepath.Join(root, "mapping_files", "persons.csv"),
		InstitutionsFile: filepath.Join(root, "mapping_files", "institutions.csv"),
	}
	for _, dir := range []string{ws.SourceDir, filepath.Dir(ws.PersonsFile)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("create %s: %v", dir, err)
		}
	}
	return ws
}

// WriteRoster writes a roster file into the source directory.
func (w *Workspace) WriteRoster(t *testing.T, name string, lines ...string) string {
	t.Helper()
	return WriteLines(t, filepath.Join(w.SourceDir, name), lines...)
}

// WritePersons writes the person table.
func (w *Workspace) WritePersons(t *testing.T, lines ...string) {
	t.Helper()
	WriteLines(t, w.PersonsFile, lines...)
}

// WriteInstitutions writes the institution map.
func (w *Workspace) WriteInstitutions(t *testing.T, lines ...string) {
	t.Helper()
	WriteLines(t, w.InstitutionsFile, lines...)
}

// Output returns a path under the workspace root.
func (w *Workspace) Output(name string) string {
	return filepath.Join(w.Root, name)
}

// WriteLines writes lines joined by newlines, creating parent directories.
func WriteLines(t *testing.T, path string, lines ...string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create dir for %s: %v", path, err)
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
