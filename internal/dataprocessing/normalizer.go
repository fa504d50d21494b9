package dataprocessing

import (
	"context"
	"log/slog"
	"strings"

	"facultypanel/internal/errors"
	"facultypanel/pkg/contracts/domain"
)

// NormalizerConfig holds the row inclusion rules.
type NormalizerConfig struct {
	// Degrees lists the degree values to keep.
	Degrees []string
	// ExcludedRanks drops rows whose rank contains any of these substrings.
	ExcludedRanks []string
	// VisitingMarker drops rows whose annotation starts with it.
	VisitingMarker string
}

// DefaultNormalizerConfig returns the rules used for the published panel.
func DefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		Degrees:        []string{"PHD"},
		ExcludedRanks:  []string{"Retired", "Emeritus", "Deceased", "Visiting"},
		VisitingMarker: "visiting from",
	}
}

// requiredColumns must be present in every roster.
var requiredColumns = []string{domain.ColumnName, domain.ColumnInstitution, domain.ColumnDegree}

// NormalizedFile is one roster after filtering and normalization.
type NormalizedFile struct {
	Tag domain.SourceTag
	// Columns lists the output columns in file order.
	Columns  []string
	Rows     []domain.RosterRow
	RowsRead int
	Drops    domain.DropCounts
	// UnmappedInstitutions counts raw employing institutions missing from the map.
	UnmappedInstitutions map[string]int
}

// Normalizer filters roster rows and rewrites identifying fields.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	logger       *slog.Logger
	config       NormalizerConfig
	institutions *InstitutionMap
	degrees      map[string]struct{}
}

// NewNormalizer creates a normalizer using the given institution map.
func NewNormalizer(logger *slog.Logger, config NormalizerConfig, institutions *InstitutionMap) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	degrees := make(map[string]struct{}, len(config.Degrees))
	for _, d := range config.Degrees {
		degrees[d] = struct{}{}
	}
	return &Normalizer{
		logger:       logger,
		config:       config,
		institutions: institutions,
		degrees:      degrees,
	}
}

// Normalize applies the inclusion filters to table and builds identity keys.
func (n *Normalizer) Normalize(ctx context.Context, tag domain.SourceTag, table *Table) (*NormalizedFile, error) {
	for _, col := range requiredColumns {
		if !table.HasColumn(col) {
			return nil, errors.NewNotFoundError("column "+col).WithContext("file", tag.File)
		}
	}

	out := &NormalizedFile{
		Tag:                  tag,
		Columns:              outputColumns(table.Header),
		RowsRead:             len(table.Records),
		UnmappedInstitutions: make(map[string]int),
	}

	for i := range table.Records {
		fields := table.RowMap(i)

		rawDep, ok := fields[domain.ColumnInstitution]
		if !ok {
			out.Drops.MissingInstitution++
			continue
		}
		if _, ok := n.degrees[fields[domain.ColumnDegree]]; !ok {
			out.Drops.Degree++
			continue
		}
		if n.excludedRank(fields[domain.ColumnRank]) {
			out.Drops.Rank++
			continue
		}
		if n.visiting(fields[domain.ColumnAnnotation]) {
			out.Drops.Annotation++
			continue
		}

		year, _ := CompleteYear(fields[domain.ColumnGradYear])
		delete(fields, domain.ColumnGradYear)

		// An unmapped school keeps its raw spelling; it only feeds the identity key.
		if school, ok := fields[domain.ColumnSchool]; ok {
			if canonical, ok := n.institutions.Lookup(school); ok {
				fields[domain.ColumnSchool] = canonical
			}
		}
		key := IdentityKey(fields[domain.ColumnName], fields[domain.ColumnSchool], year)

		dep, ok := n.institutions.Lookup(rawDep)
		if !ok {
			out.Drops.UnmappedInstitution++
			out.UnmappedInstitutions[rawDep]++
			continue
		}
		fields[domain.ColumnInstitution] = dep

		out.Rows = append(out.Rows, domain.RosterRow{
			Fields:         fields,
			IdentityKey:    key,
			Tag:            rowTag(tag, fields),
			RawInstitution: rawDep,
		})
	}

	n.logger.InfoContext(ctx, "roster normalized",
		slog.String("file", tag.File),
		slog.String("listing", tag.Listing),
		slog.Int("rows_read", out.RowsRead),
		slog.Int("rows_kept", len(out.Rows)),
		slog.Int("dropped_missing_institution", out.Drops.MissingInstitution),
		slog.Int("dropped_degree", out.Drops.Degree),
		slog.Int("dropped_rank", out.Drops.Rank),
		slog.Int("dropped_annotation", out.Drops.Annotation),
		slog.Int("dropped_unmapped_institution", out.Drops.UnmappedInstitution))

	return out, nil
}

func (n *Normalizer) excludedRank(rank string) bool {
	if rank == "" {
		return false
	}
	for _, r := range n.config.ExcludedRanks {
		if r != "" && strings.Contains(rank, r) {
			return true
		}
	}
	return false
}

func (n *Normalizer) visiting(annotation string) bool {
	if n.config.VisitingMarker == "" || annotation == "" {
		return false
	}
	return strings.HasPrefix(strings.TrimLeft(annotation, " \t"), n.config.VisitingMarker)
}

// IdentityKey joins the non-empty parts of name, school and year with ";".
func IdentityKey(name, school, year string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{name, school, year} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ";")
}

// HasNaNPart reports whether any ";" part of key is a spreadsheet "nan"
// placeholder. Such keys usually mean a missing cell was exported as text.
func HasNaNPart(key string) bool {
	for _, p := range strings.Split(key, ";") {
		if strings.EqualFold(strings.TrimSpace(p), "nan") {
			return true
		}
	}
	return false
}

// outputColumns drops the graduation year, which only feeds the identity key.
func outputColumns(header []string) []string {
	cols := make([]string, 0, len(header))
	for _, h := range header {
		if h == domain.ColumnGradYear || h == "" {
			continue
		}
		cols = append(cols, h)
	}
	return cols
}

// rowTag lets row-level listing and category columns override the file tag.
func rowTag(tag domain.SourceTag, fields map[string]string) domain.SourceTag {
	if v, ok := fields[domain.ColumnListing]; ok {
		tag.Listing = v
	}
	if v, ok := fields[domain.ColumnCategory]; ok {
		tag.Category = v
	}
	return tag
}
