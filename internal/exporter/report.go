package exporter

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"

	"facultypanel/pkg/contracts/domain"
)

// statsOrder fixes the print order of RunSummary.Stats.
var statsOrder = []string{
	"N_of_Hasselback_fac_scopus",
	"N_of_Hasselback_dep_scopus",
	"N_of_Hasselback_fac",
	"N_of_Hasselback_dep",
}

// Reporter prints the human-readable run summary.
type Reporter struct {
	out io.Writer
	// UnmappedLimit caps the unmapped-institution table; zero prints all.
	UnmappedLimit int
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer, unmappedLimit int) *Reporter {
	return &Reporter{out: out, UnmappedLimit: unmappedLimit}
}

// Report prints every section of the summary.
func (r *Reporter) Report(summary domain.RunSummary) {
	r.Files(summary.Files)
	r.Totals(summary)
	r.Unmapped(summary.UnmappedInstitutions)
}

// Files prints per-file row counts and drop reasons.
func (r *Reporter) Files(files []domain.FileSummary) {
	t := r.newTable()
	t.AppendHeader(table.Row{"file", "rows", "no dep", "degree", "rank", "visiting", "unmapped dep", "with ID", "without ID"})
	for _, f := range files {
		t.AppendRow(table.Row{
			f.Tag.File,
			humanize.Comma(int64(f.RowsRead)),
			humanize.Comma(int64(f.Drops.MissingInstitution)),
			humanize.Comma(int64(f.Drops.Degree)),
			humanize.Comma(int64(f.Drops.Rank)),
			humanize.Comma(int64(f.Drops.Annotation)),
			humanize.Comma(int64(f.Drops.UnmappedInstitution)),
			humanize.Comma(int64(f.Identified)),
			humanize.Comma(int64(f.Unidentified)),
		})
	}
	t.Render()
}

// Totals prints the matched/unmatched counts and the stats block.
func (r *Reporter) Totals(s domain.RunSummary) {
	fmt.Fprintf(r.out, ">>> %s individuals from %s different universities without ID\n",
		humanize.Comma(int64(s.UnmatchedPeople)), humanize.Comma(int64(s.UnmatchedInstitutions)))
	fmt.Fprintf(r.out, ">>> %s individuals from %s different universities with ID\n",
		humanize.Comma(int64(s.MatchedPeople)), humanize.Comma(int64(s.MatchedInstitutions)))
	fmt.Fprintf(r.out, ">>> panel has %s rows and %s columns\n",
		humanize.Comma(int64(s.MatchedPeople)), humanize.Comma(int64(s.PanelColumns)))
	if s.DuplicateRows > 0 || s.SimultaneousAffiliations > 0 {
		fmt.Fprintf(r.out, ">>> kept first of %s duplicate rows and %s simultaneous affiliations\n",
			humanize.Comma(int64(s.DuplicateRows)), humanize.Comma(int64(s.SimultaneousAffiliations)))
	}
	if s.NaNKeys > 0 {
		fmt.Fprintf(r.out, ">>> %s unidentified keys contain \"nan\", check the roster for blank cells\n",
			humanize.Comma(int64(s.NaNKeys)))
	}

	stats := s.Stats()
	t := r.newTable()
	t.AppendHeader(table.Row{"statistic", "value"})
	for _, k := range statsOrder {
		t.AppendRow(table.Row{k, humanize.Comma(int64(stats[k]))})
	}
	t.Render()
}

// Unmapped prints raw institution names missing from the institution map,
// most frequent first.
func (r *Reporter) Unmapped(counts []domain.InstitutionCount) {
	if len(counts) == 0 {
		fmt.Fprintln(r.out, ">>> every institution name is mapped")
		return
	}
	fmt.Fprintf(r.out, ">>> %s institution names missing from the map\n", humanize.Comma(int64(len(counts))))

	t := r.newTable()
	t.AppendHeader(table.Row{"institution", "rows"})
	for i, c := range counts {
		if r.UnmappedLimit > 0 && i >= r.UnmappedLimit {
			t.AppendFooter(table.Row{fmt.Sprintf("... %d more", len(counts)-i), ""})
			break
		}
		t.AppendRow(table.Row{c.Name, humanize.Comma(int64(c.Count))})
	}
	t.Render()
}

func (r *Reporter) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

// RankInstitutions sorts raw-name counts by descending count, then name.
func RankInstitutions(counts map[string]int) []domain.InstitutionCount {
	ranked := make([]domain.InstitutionCount, 0, len(counts))
	for name, n := range counts {
		ranked = append(ranked, domain.InstitutionCount{Name: name, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}
