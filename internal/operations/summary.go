package operations

import (
	"facultypanel/internal/exporter"
	"facultypanel/pkg/contracts/domain"
)

// BuildSummary derives the run summary from the state of a finished run.
func BuildSummary(state *OperationState) domain.RunSummary {
	var s domain.RunSummary

	unmapped := make(map[string]int)
	for i, nf := range state.Normalized {
		fs := domain.FileSummary{
			Tag:      nf.Tag,
			RowsRead: nf.RowsRead,
			Drops:    nf.Drops,
		}
		if i < len(state.Matched) {
			fs.Identified = len(state.Matched[i].Identified)
			fs.Unidentified = len(state.Matched[i].Unidentified)
			s.NaNKeys += state.Matched[i].NaNKeys
		}
		s.Files = append(s.Files, fs)

		for name, n := range nf.UnmappedInstitutions {
			unmapped[name] += n
		}
	}
	s.UnmappedInstitutions = exporter.RankInstitutions(unmapped)

	all := make(map[string]struct{})
	if state.Panel != nil {
		matched := state.Panel.Institutions()
		s.MatchedPeople = len(state.Panel.Rows)
		s.PanelColumns = state.Panel.Width()
		s.MatchedInstitutions = len(matched)
		for name := range matched {
			all[name] = struct{}{}
		}
	}

	unmatched := make(map[string]struct{})
	for _, u := range state.Unmatched {
		unmatched[u.Institution] = struct{}{}
		all[u.Institution] = struct{}{}
	}
	s.UnmatchedPeople = len(state.Unmatched)
	s.UnmatchedInstitutions = len(unmatched)

	s.TotalPeople = s.MatchedPeople + s.UnmatchedPeople
	s.TotalInstitutions = len(all)
	s.DuplicateRows = state.AggregateStats.DuplicateRows
	s.SimultaneousAffiliations = state.AggregateStats.SimultaneousAffiliations
	return s
}
