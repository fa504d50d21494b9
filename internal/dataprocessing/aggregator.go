package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"facultypanel/pkg/contracts/domain"
)

// AggregateStats reports collisions resolved while folding rows into the panel.
type AggregateStats struct {
	// DuplicateRows counts repeated (identifier, group) rows with the same institution.
	DuplicateRows int
	// SimultaneousAffiliations counts repeated (identifier, group) rows with a
	// different institution; the first one is kept.
	SimultaneousAffiliations int
	// DuplicateUnmatched counts unmatched rows dropped because their identity
	// key was already recorded.
	DuplicateUnmatched int
}

type matchedEntry struct {
	row     domain.MatchedRow
	columns []string
}

// Aggregator folds the match results of all files, in processing order,
// into a single panel keyed by canonical identifier.
type Aggregator struct {
	logger    *slog.Logger
	layout    domain.Layout
	matched   []matchedEntry
	unmatched []domain.UnmatchedRecord
	seenKeys  map[string]struct{}
	stats     AggregateStats
}

// NewAggregator creates an empty aggregator for layout.
func NewAggregator(logger *slog.Logger, layout domain.Layout) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if layout == "" {
		layout = domain.LayoutYearly
	}
	return &Aggregator{
		logger:   logger,
		layout:   layout,
		seenKeys: make(map[string]struct{}),
	}
}

// Add records the result of one file. Results must be added in processing order.
func (a *Aggregator) Add(res *MatchResult) {
	columns := res.Columns
	if a.layout == domain.LayoutPanel {
		columns = withoutTagColumns(columns)
	}
	for _, row := range res.Identified {
		a.matched = append(a.matched, matchedEntry{row: row, columns: columns})
	}
	for _, rec := range res.Unidentified {
		if _, ok := a.seenKeys[rec.IdentityKey]; ok {
			a.stats.DuplicateUnmatched++
			continue
		}
		a.seenKeys[rec.IdentityKey] = struct{}{}
		a.unmatched = append(a.unmatched, rec)
	}
}

// Unmatched returns the deduplicated unmatched records sorted by identity key.
func (a *Aggregator) Unmatched() []domain.UnmatchedRecord {
	out := make([]domain.UnmatchedRecord, len(a.unmatched))
	copy(out, a.unmatched)
	sort.SliceStable(out, func(i, j int) bool { return out[i].IdentityKey < out[j].IdentityKey })
	return out
}

// Build folds every identified row into the panel and attaches the
// time-invariant person columns.
func (a *Aggregator) Build(ctx context.Context, persons *PersonTable) (*domain.Panel, AggregateStats) {
	entries := a.matched
	if a.layout == domain.LayoutPanel {
		entries = make([]matchedEntry, len(a.matched))
		copy(entries, a.matched)
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].row.Row.Tag.SortKey() < entries[j].row.Row.Tag.SortKey()
		})
	}

	panel := &domain.Panel{}
	groupIdx := make(map[string]int)
	groupCols := make(map[string]map[string]struct{})
	rows := make(map[uint64]*domain.PanelRow)
	stats := a.stats

	for _, e := range entries {
		group := e.row.Row.Tag.Group(a.layout)

		idx, ok := groupIdx[group]
		if !ok {
			idx = len(panel.Groups)
			groupIdx[group] = idx
			groupCols[group] = make(map[string]struct{})
			panel.Groups = append(panel.Groups, domain.PanelGroup{Name: group})
		}
		for _, c := range e.columns {
			if _, seen := groupCols[group][c]; !seen {
				groupCols[group][c] = struct{}{}
				panel.Groups[idx].Columns = append(panel.Groups[idx].Columns, c)
			}
		}

		pr, ok := rows[e.row.ScopusID]
		if !ok {
			pr = &domain.PanelRow{ScopusID: e.row.ScopusID, Cells: make(map[string]map[string]string)}
			rows[e.row.ScopusID] = pr
		}
		if existing, taken := pr.Cells[group]; taken {
			if existing[domain.ColumnInstitution] == e.row.Row.Institution() {
				stats.DuplicateRows++
			} else {
				stats.SimultaneousAffiliations++
			}
			continue
		}

		cells := make(map[string]string, len(e.columns))
		for _, c := range e.columns {
			if v, ok := e.row.Row.Get(c); ok {
				cells[c] = v
			}
		}
		pr.Cells[group] = cells
	}

	panel.Rows = make([]*domain.PanelRow, 0, len(rows))
	for id, pr := range rows {
		if p, ok := persons.Person(id); ok {
			pr.Name = p.Name
			pr.GradYear = p.GradYear
		}
		panel.Rows = append(panel.Rows, pr)
	}
	panel.SortRows()

	a.logger.InfoContext(ctx, "panel aggregated",
		slog.String("layout", string(a.layout)),
		slog.Int("people", len(panel.Rows)),
		slog.Int("groups", len(panel.Groups)),
		slog.Int("duplicate_rows", stats.DuplicateRows),
		slog.Int("simultaneous_affiliations", stats.SimultaneousAffiliations),
		slog.Int("unmatched", len(a.unmatched)),
		slog.Int("duplicate_unmatched", stats.DuplicateUnmatched))

	return panel, stats
}

// withoutTagColumns drops listing and category, which the panel layout
// already encodes in the group name.
func withoutTagColumns(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if c == domain.ColumnListing || c == domain.ColumnCategory {
			continue
		}
		out = append(out, c)
	}
	return out
}
