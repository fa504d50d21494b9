package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"facultypanel/pkg/contracts/domain"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// RosterFile is a discovered roster with the tag derived from its name.
type RosterFile struct {
	FileInfo
	Tag domain.SourceTag
}

// rosterExtensions lists the readable roster formats.
var rosterExtensions = map[string]struct{}{
	".csv":  {},
	".xlsx": {},
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindRosterFiles finds roster files in dir, sorted by listing, category and name.
func (d *Discovery) FindRosterFiles(dir string) ([]RosterFile, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []RosterFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		// editor lock files and hidden files
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if _, ok := rosterExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, RosterFile{
			FileInfo: FileInfo{
				Path:    filepath.Join(fullPath, name),
				Name:    name,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			},
			Tag: ParseSourceTag(name),
		})
	}

	SortRosterFiles(files)
	return files, nil
}

// SortRosterFiles orders files by listing, then category, then name.
func SortRosterFiles(files []RosterFile) {
	sort.SliceStable(files, func(i, j int) bool {
		ki, kj := files[i].Tag.SortKey(), files[j].Tag.SortKey()
		if ki != kj {
			return ki < kj
		}
		return files[i].Name < files[j].Name
	})
}

// ParseSourceTag derives the tag from a file name of the form
// <listing>[_<category>].<ext>.
func ParseSourceTag(name string) domain.SourceTag {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	listing, category, _ := strings.Cut(stem, "_")
	return domain.SourceTag{
		File:     filepath.Base(name),
		Listing:  strings.TrimSpace(listing),
		Category: strings.TrimSpace(category),
	}
}
