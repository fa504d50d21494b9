package dataprocessing

import (
	"facultypanel/internal/errors"
)

// ColumnCanonicalName is the institution map column holding the canonical name.
const ColumnCanonicalName = "our_name"

// InstitutionMap maps raw institution spellings to canonical names.
// It is immutable once built.
type InstitutionMap struct {
	names map[string]string
}

// NewInstitutionMap copies names into a new map.
func NewInstitutionMap(names map[string]string) *InstitutionMap {
	m := make(map[string]string, len(names))
	for raw, canonical := range names {
		m[raw] = canonical
	}
	return &InstitutionMap{names: m}
}

// LoadInstitutionMap reads the institution map file. The first column holds
// the raw name; rows without a canonical name are ignored. When a raw name
// repeats, the last row wins.
func LoadInstitutionMap(path string) (*InstitutionMap, error) {
	table, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	return InstitutionMapFromTable(table)
}

// InstitutionMapFromTable builds the map from an already parsed table.
func InstitutionMapFromTable(table *Table) (*InstitutionMap, error) {
	idx := table.ColumnIndex(ColumnCanonicalName)
	if idx < 0 {
		return nil, errors.NewNotFoundError("institution map column " + ColumnCanonicalName)
	}
	if idx == 0 {
		return nil, errors.NewParsingError("institution map needs the raw name in the first column", nil)
	}

	names := make(map[string]string, len(table.Records))
	for _, rec := range table.Records {
		raw, canonical := rec[0], rec[idx]
		if IsMissing(raw) || IsMissing(canonical) {
			continue
		}
		names[raw] = canonical
	}
	return &InstitutionMap{names: names}, nil
}

// Lookup returns the canonical name for raw.
func (m *InstitutionMap) Lookup(raw string) (string, bool) {
	canonical, ok := m.names[raw]
	return canonical, ok
}

// Len returns the number of mapped raw names.
func (m *InstitutionMap) Len() int {
	return len(m.names)
}
