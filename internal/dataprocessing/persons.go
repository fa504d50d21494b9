package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"facultypanel/internal/errors"
	"facultypanel/pkg/contracts/domain"
)

// maxExactFloat is the largest integer a float64 holds without rounding.
const maxExactFloat = 1 << 53

// PersonTable is the canonical person lookup. It is immutable once built.
type PersonTable struct {
	byKey map[string]domain.Person
	byID  map[uint64]domain.Person
	// DuplicateKeys counts rows skipped because their identity key was already present.
	DuplicateKeys int
	// InvalidIDs counts rows skipped because scopus_id was missing or not an integer.
	InvalidIDs int
}

// NewPersonTable indexes people by identity key and by identifier, keeping
// the first row for each.
func NewPersonTable(people []domain.Person) *PersonTable {
	t := &PersonTable{
		byKey: make(map[string]domain.Person, len(people)),
		byID:  make(map[uint64]domain.Person, len(people)),
	}
	for _, p := range people {
		t.add(p)
	}
	return t
}

func (t *PersonTable) add(p domain.Person) {
	_, dup := t.byKey[p.IdentityKey]
	switch {
	case p.IdentityKey == "":
		// reachable by identifier only
	case dup:
		t.DuplicateKeys++
	default:
		t.byKey[p.IdentityKey] = p
	}
	if _, ok := t.byID[p.ScopusID]; !ok {
		t.byID[p.ScopusID] = p
	}
}

// LoadPersonTable reads the person file: identity key in the first column,
// then scopus_id and optionally scopus_name and grad_year.
func LoadPersonTable(path string) (*PersonTable, error) {
	table, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	return PersonTableFromTable(table)
}

// PersonTableFromTable builds the lookup from an already parsed table.
func PersonTableFromTable(table *Table) (*PersonTable, error) {
	idIdx := table.ColumnIndex(domain.ColumnScopusID)
	if idIdx < 0 {
		return nil, errors.NewNotFoundError("person table column " + domain.ColumnScopusID)
	}
	if idIdx == 0 {
		return nil, errors.NewParsingError("person table needs the identity key in the first column", nil)
	}
	nameIdx := table.ColumnIndex(domain.ColumnScopusName)
	yearIdx := table.ColumnIndex(domain.ColumnGradYear)

	t := NewPersonTable(nil)
	for _, rec := range table.Records {
		id, err := ParseScopusID(rec[idIdx])
		if err != nil {
			t.InvalidIDs++
			continue
		}
		p := domain.Person{ScopusID: id}
		if !IsMissing(rec[0]) {
			p.IdentityKey = rec[0]
		}
		if nameIdx >= 0 && !IsMissing(rec[nameIdx]) {
			p.Name = rec[nameIdx]
		}
		if yearIdx >= 0 && !IsMissing(rec[yearIdx]) {
			p.GradYear = rec[yearIdx]
		}
		t.add(p)
	}
	return t, nil
}

// Match returns the person registered under an identity key.
func (t *PersonTable) Match(key string) (domain.Person, bool) {
	if key == "" {
		return domain.Person{}, false
	}
	p, ok := t.byKey[key]
	return p, ok
}

// Person returns the first row registered for an identifier.
func (t *PersonTable) Person(id uint64) (domain.Person, bool) {
	p, ok := t.byID[id]
	return p, ok
}

// Len returns the number of distinct identity keys.
func (t *PersonTable) Len() int {
	return len(t.byKey)
}

// ParseScopusID parses an identifier written either as an integer or as an
// integral float ("7004212771.0", "7.004212771e9"). Fractional, negative or
// imprecise values are rejected.
func ParseScopusID(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return 0, fmt.Errorf("empty identifier")
	}
	if id, err := strconv.ParseUint(s, 10, 64); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse identifier %q: %w", s, err)
	}
	if f < 0 || f != math.Trunc(f) || f > maxExactFloat {
		return 0, fmt.Errorf("identifier %q is not an exact non-negative integer", s)
	}
	return uint64(f), nil
}
