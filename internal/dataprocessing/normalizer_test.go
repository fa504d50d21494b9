package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facultypanel/internal/errors"
	"facultypanel/internal/shared/testutil"
	"facultypanel/pkg/contracts/domain"
)

func testInstitutions() *InstitutionMap {
	return NewInstitutionMap(map[string]string{
		"Yale Univ": "Yale University",
		"MIT":       "MIT",
	})
}

const testRoster = `name,school,dep,degree,grad_year,rank,annotation
Smith J,Yale Univ,MIT,PHD,85,Professor,
Doe A,,Yale Univ,PHD,,Assistant Professor,
Roe B,MIT,MIT,PHD,90,Retired Professor,
Poe C,MIT,MIT,PHD,91,Professor,visiting from Xyz University
Lee D,MIT,MIT,DBA,92,Professor,
Kim E,MIT,,PHD,93,Professor,
Cho F,Unknown School,Unknown Inst,PHD,94,Professor,
Ito G,Unknown School,MIT,PHD,x,Professor,
`

func TestNormalizer_Normalize(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	n := NewNormalizer(logger, DefaultNormalizerConfig(), testInstitutions())
	tag := domain.SourceTag{File: "1998.csv", Listing: "1998"}

	out, err := n.Normalize(context.Background(), tag, mustTable(t, testRoster))
	require.NoError(t, err)

	assert.Equal(t, 8, out.RowsRead)
	assert.Equal(t, domain.DropCounts{
		MissingInstitution:  1,
		Degree:              1,
		Rank:                1,
		Annotation:          1,
		UnmappedInstitution: 1,
	}, out.Drops)
	assert.Equal(t, map[string]int{"Unknown Inst": 1}, out.UnmappedInstitutions)
	assert.Equal(t, []string{"name", "school", "dep", "degree", "rank", "annotation"}, out.Columns)

	require.Len(t, out.Rows, 3)

	smith := out.Rows[0]
	assert.Equal(t, "Smith J;Yale University;1985", smith.IdentityKey)
	assert.Equal(t, "MIT", smith.Institution())
	assert.Equal(t, "Yale University", smith.Fields["school"])
	_, hasYear := smith.Get("grad_year")
	assert.False(t, hasYear)
	assert.Equal(t, tag, smith.Tag)

	doe := out.Rows[1]
	assert.Equal(t, "Doe A", doe.IdentityKey)
	assert.Equal(t, "Yale University", doe.Institution())
	assert.Equal(t, "Yale Univ", doe.RawInstitution)

	// unmapped school keeps its raw spelling, unparseable year is left out
	ito := out.Rows[2]
	assert.Equal(t, "Ito G;Unknown School", ito.IdentityKey)

	assert.True(t, handler.ContainsMessage("roster normalized"))
	testutil.AssertLogAttr(t, handler, "dropped_rank", int64(1))
}

func TestNormalizer_Filters(t *testing.T) {
	tests := []struct {
		name     string
		row      string
		wantKept bool
	}{
		{name: "retired excluded regardless of degree", row: "A,MIT,MIT,PHD,80,Retired Professor,", wantKept: false},
		{name: "emeritus excluded", row: "A,MIT,MIT,PHD,80,Professor Emeritus,", wantKept: false},
		{name: "deceased excluded", row: "A,MIT,MIT,PHD,80,Deceased,", wantKept: false},
		{name: "visiting rank excluded", row: "A,MIT,MIT,PHD,80,Visiting Professor,", wantKept: false},
		{name: "rank match is case sensitive", row: "A,MIT,MIT,PHD,80,retired,", wantKept: true},
		{name: "visiting annotation excluded regardless of rank", row: "A,MIT,MIT,PHD,80,Professor,visiting from Xyz University", wantKept: false},
		{name: "annotation with leading space", row: "A,MIT,MIT,PHD,80,Professor, visiting from Xyz", wantKept: false},
		{name: "annotation elsewhere kept", row: "A,MIT,MIT,PHD,80,Professor,was visiting from Xyz", wantKept: true},
		{name: "non doctoral degree", row: "A,MIT,MIT,MBA,80,Professor,", wantKept: false},
		{name: "missing degree", row: "A,MIT,MIT,,80,Professor,", wantKept: false},
		{name: "plain professor kept", row: "A,MIT,MIT,PHD,80,Professor,", wantKept: true},
	}

	n := NewNormalizer(nil, DefaultNormalizerConfig(), testInstitutions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := mustTable(t, "name,school,dep,degree,grad_year,rank,annotation\n"+tt.row+"\n")
			out, err := n.Normalize(context.Background(), domain.SourceTag{File: "x.csv"}, table)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKept, len(out.Rows) == 1)
		})
	}
}

func TestNormalizer_CustomDegrees(t *testing.T) {
	cfg := DefaultNormalizerConfig()
	cfg.Degrees = []string{"PHD", "DBA"}
	n := NewNormalizer(nil, cfg, testInstitutions())

	table := mustTable(t, "name,dep,degree\nA,MIT,DBA\nB,MIT,PHD\nC,MIT,MBA\n")
	out, err := n.Normalize(context.Background(), domain.SourceTag{}, table)
	require.NoError(t, err)
	assert.Len(t, out.Rows, 2)
}

func TestNormalizer_OptionalColumns(t *testing.T) {
	n := NewNormalizer(nil, DefaultNormalizerConfig(), testInstitutions())

	// no school, grad_year, rank or annotation columns
	table := mustTable(t, "name,dep,degree\nSmith J,MIT,PHD\n")
	out, err := n.Normalize(context.Background(), domain.SourceTag{}, table)
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "Smith J", out.Rows[0].IdentityKey)
}

func TestNormalizer_MissingRequiredColumn(t *testing.T) {
	n := NewNormalizer(nil, DefaultNormalizerConfig(), testInstitutions())

	_, err := n.Normalize(context.Background(), domain.SourceTag{File: "bad.csv"},
		mustTable(t, "name,school,degree\nA,MIT,PHD\n"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestNormalizer_RowTagOverride(t *testing.T) {
	n := NewNormalizer(nil, DefaultNormalizerConfig(), testInstitutions())
	tag := domain.SourceTag{File: "2009-10_finance.csv", Listing: "2009-10", Category: "finance"}

	table := mustTable(t, "name,dep,degree,category\nA,MIT,PHD,accounting\nB,MIT,PHD,\n")
	out, err := n.Normalize(context.Background(), tag, table)
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)

	assert.Equal(t, "accounting", out.Rows[0].Tag.Category)
	assert.Equal(t, "2009-10", out.Rows[0].Tag.Listing)
	assert.Equal(t, "finance", out.Rows[1].Tag.Category)
}

func TestIdentityKey(t *testing.T) {
	tests := []struct {
		name, school, year string
		want               string
	}{
		{"Smith J", "Yale University", "1985", "Smith J;Yale University;1985"},
		{"Smith J", "", "1985", "Smith J;1985"},
		{"Smith J", "Yale University", "", "Smith J;Yale University"},
		{"Smith J", "", "", "Smith J"},
		{"", "", "1985", "1985"},
		{"", "", "", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IdentityKey(tt.name, tt.school, tt.year))
	}
}

func TestHasNaNPart(t *testing.T) {
	assert.True(t, HasNaNPart("Smith J;nan;1985"))
	assert.True(t, HasNaNPart("NaN"))
	assert.True(t, HasNaNPart("Smith J; nan "))
	assert.False(t, HasNaNPart("Nanda K;Yale;1990"))
	assert.False(t, HasNaNPart("Smith J;Fernando State"))
	assert.False(t, HasNaNPart(""))
}

func TestIdentityKey_AbsentEqualsEmptySchool(t *testing.T) {
	n := NewNormalizer(nil, DefaultNormalizerConfig(), testInstitutions())

	withColumn := mustTable(t, "name,school,dep,degree,grad_year\nSmith J,,MIT,PHD,85\n")
	withoutColumn := mustTable(t, "name,dep,degree,grad_year\nSmith J,MIT,PHD,85\n")

	a, err := n.Normalize(context.Background(), domain.SourceTag{}, withColumn)
	require.NoError(t, err)
	b, err := n.Normalize(context.Background(), domain.SourceTag{}, withoutColumn)
	require.NoError(t, err)

	assert.Equal(t, "Smith J;1985", a.Rows[0].IdentityKey)
	assert.Equal(t, a.Rows[0].IdentityKey, b.Rows[0].IdentityKey)
}
