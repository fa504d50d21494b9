package domain

import "strings"

// Standard roster column names.
const (
	ColumnName        = "name"
	ColumnSchool      = "school"
	ColumnInstitution = "dep"
	ColumnDegree      = "degree"
	ColumnGradYear    = "grad_year"
	ColumnRank        = "rank"
	ColumnAnnotation  = "annotation"
	ColumnListing     = "listing"
	ColumnCategory    = "category"
)

// Layout selects how matched rows are grouped into output columns.
type Layout string

const (
	// LayoutYearly produces one column group per source year.
	LayoutYearly Layout = "yearly"
	// LayoutPanel produces one column group per category and listing.
	LayoutPanel Layout = "panel"
)

// SourceTag describes where a roster row came from. It is derived from the
// file name and optionally overridden by row-level listing/category columns.
type SourceTag struct {
	File     string `json:"file"`
	Listing  string `json:"listing"`
	Category string `json:"category,omitempty"`
}

// Year returns the listing up to its first dash ("1998-99" -> "1998").
func (t SourceTag) Year() string {
	year, _, _ := strings.Cut(t.Listing, "-")
	return year
}

// SortKey orders sources by listing, then category.
func (t SourceTag) SortKey() string {
	return t.Listing + "\x00" + t.Category
}

// Group returns the output column-group name for the given layout.
func (t SourceTag) Group(layout Layout) string {
	if layout == LayoutPanel {
		if t.Category == "" {
			return t.Listing
		}
		return t.Category + "_" + t.Listing
	}
	return t.Year()
}

// RosterRow is one faculty listing after normalization. Fields holds only
// non-null cells; a column absent from Fields is missing.
type RosterRow struct {
	Fields      map[string]string
	IdentityKey string
	Tag         SourceTag
	// RawInstitution is the employing institution before mapping.
	RawInstitution string
}

// Get returns the value of a column and whether it is present.
func (r RosterRow) Get(column string) (string, bool) {
	v, ok := r.Fields[column]
	return v, ok
}

// Institution returns the canonical employing institution.
func (r RosterRow) Institution() string {
	return r.Fields[ColumnInstitution]
}

// MatchedRow is a roster row joined to a canonical identifier.
type MatchedRow struct {
	ScopusID uint64
	Row      RosterRow
}

// UnmatchedRecord is a roster entry without a canonical identifier,
// kept for manual curation of the person table.
type UnmatchedRecord struct {
	IdentityKey string    `json:"faculty"`
	Institution string    `json:"dep"`
	Tag         SourceTag `json:"-"`
}
