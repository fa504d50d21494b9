package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"facultypanel/pkg/contracts/domain"
)

func TestRankInstitutions(t *testing.T) {
	ranked := RankInstitutions(map[string]int{
		"Univ of Nowhere": 2,
		"Acme College":    2,
		"Big State":       5,
	})

	assert.Equal(t, []domain.InstitutionCount{
		{Name: "Big State", Count: 5},
		{Name: "Acme College", Count: 2},
		{Name: "Univ of Nowhere", Count: 2},
	}, ranked)
}

func TestReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, 1)

	r.Report(domain.RunSummary{
		Files: []domain.FileSummary{{
			Tag:      domain.SourceTag{File: "2001.csv", Listing: "2001"},
			RowsRead: 12345,
			Drops:    domain.DropCounts{Rank: 2},
		}},
		MatchedPeople:         1234,
		PanelColumns:          9,
		MatchedInstitutions:   3,
		UnmatchedPeople:       4,
		UnmatchedInstitutions: 2,
		TotalPeople:           1238,
		TotalInstitutions:     4,
		NaNKeys:               2,
		UnmappedInstitutions: []domain.InstitutionCount{
			{Name: "Big State", Count: 5},
			{Name: "Acme College", Count: 2},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "2001.csv")
	assert.Contains(t, out, "12,345")
	assert.Contains(t, out, ">>> 4 individuals from 2 different universities without ID")
	assert.Contains(t, out, ">>> 1,234 individuals from 3 different universities with ID")
	assert.Contains(t, out, "N_of_Hasselback_fac")
	assert.Contains(t, out, "1,238")
	assert.Contains(t, out, "Big State")
	assert.NotContains(t, out, "Acme College")
	assert.Contains(t, out, "1 more")
	assert.Contains(t, out, `>>> 2 unidentified keys contain "nan"`)
}

func TestReporter_NoNaNKeys(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf, 0).Totals(domain.RunSummary{})
	assert.NotContains(t, buf.String(), "nan")
}

func TestReporter_NothingUnmapped(t *testing.T) {
	var buf bytes.Buffer
	NewReporter(&buf, 0).Unmapped(nil)
	assert.Contains(t, buf.String(), "every institution name is mapped")
}
