package domain

import "sort"

// Output column names of the panel.
const (
	ColumnScopusID   = "scopus_id"
	ColumnScopusName = "scopus_name"
	ColumnFaculty    = "faculty"
)

// PanelGroup is one repeated column group of the panel.
type PanelGroup struct {
	Name    string
	Columns []string
}

// Header returns the prefixed column names of the group.
func (g PanelGroup) Header() []string {
	header := make([]string, len(g.Columns))
	for i, c := range g.Columns {
		header[i] = g.Name + "_" + c
	}
	return header
}

// PanelRow is one person of the panel.
type PanelRow struct {
	ScopusID uint64
	// Cells maps group name to column to value.
	Cells    map[string]map[string]string
	Name     string
	GradYear string
}

// Value returns a cell and whether it is set.
func (r *PanelRow) Value(group, column string) (string, bool) {
	g, ok := r.Cells[group]
	if !ok {
		return "", false
	}
	v, ok := g[column]
	return v, ok
}

// Panel is the wide output table keyed by canonical identifier.
type Panel struct {
	Groups []PanelGroup
	Rows   []*PanelRow
}

// Header returns the full output header.
func (p *Panel) Header() []string {
	header := []string{ColumnScopusID}
	for _, g := range p.Groups {
		header = append(header, g.Header()...)
	}
	return append(header, ColumnScopusName, ColumnGradYear)
}

// Width returns the number of data columns, excluding the identifier index.
func (p *Panel) Width() int {
	return len(p.Header()) - 1
}

// Records renders every row as strings. Missing cells are empty.
func (p *Panel) Records(formatID func(uint64) string) [][]string {
	records := make([][]string, 0, len(p.Rows))
	for _, row := range p.Rows {
		rec := []string{formatID(row.ScopusID)}
		for _, g := range p.Groups {
			for _, c := range g.Columns {
				v, _ := row.Value(g.Name, c)
				rec = append(rec, v)
			}
		}
		rec = append(rec, row.Name, row.GradYear)
		records = append(records, rec)
	}
	return records
}

// Institutions returns the distinct employing institutions across all groups.
func (p *Panel) Institutions() map[string]struct{} {
	set := make(map[string]struct{})
	for _, row := range p.Rows {
		for _, cells := range row.Cells {
			if dep, ok := cells[ColumnInstitution]; ok {
				set[dep] = struct{}{}
			}
		}
	}
	return set
}

// SortRows orders rows by identifier ascending.
func (p *Panel) SortRows() {
	sort.Slice(p.Rows, func(i, j int) bool { return p.Rows[i].ScopusID < p.Rows[j].ScopusID })
}
