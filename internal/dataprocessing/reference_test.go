package dataprocessing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"facultypanel/internal/errors"
	"facultypanel/pkg/contracts/domain"
)

func mustTable(t *testing.T, data string) *Table {
	t.Helper()
	table, err := ReadCSV(strings.NewReader(data))
	require.NoError(t, err)
	return table
}

func TestInstitutionMapFromTable(t *testing.T) {
	table := mustTable(t, `raw,our_name,note
Yale Univ,Yale University,
Yale U,Yale University,
Unknown College,,unmapped
Harvard,Harvard University,
Harvard,Harvard Univ.,later row wins
`)
	m, err := InstitutionMapFromTable(table)
	require.NoError(t, err)

	assert.Equal(t, 3, m.Len())

	got, ok := m.Lookup("Yale U")
	assert.True(t, ok)
	assert.Equal(t, "Yale University", got)

	_, ok = m.Lookup("Unknown College")
	assert.False(t, ok)

	got, _ = m.Lookup("Harvard")
	assert.Equal(t, "Harvard Univ.", got)
}

func TestInstitutionMapFromTable_MissingColumn(t *testing.T) {
	_, err := InstitutionMapFromTable(mustTable(t, "raw,canonical\nA,B\n"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestNewInstitutionMap_Copies(t *testing.T) {
	src := map[string]string{"MIT": "Massachusetts Institute of Technology"}
	m := NewInstitutionMap(src)
	src["MIT"] = "changed"

	got, _ := m.Lookup("MIT")
	assert.Equal(t, "Massachusetts Institute of Technology", got)
}

func TestLoadInstitutionMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "institutions.csv")
	require.NoError(t, os.WriteFile(path, []byte("raw,our_name\nMIT,MIT\n"), 0644))

	m, err := LoadInstitutionMap(path)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}

func TestPersonTableFromTable(t *testing.T) {
	table := mustTable(t, `ID,scopus_id,scopus_name,grad_year
Smith J;Yale University;1985,7004212771,"Smith, John",1985
Smith J;Yale University;1985,9999,"Smith, Jack",1985
Doe A;MIT,7004212771.0,"Smith, John",
Roe B;MIT;1990,,"Roe, Bob",1990
Poe C;MIT;1991,abc,"Poe, C",1991
Big D;MIT;1992,5.7194467e10,"Big, D",1992
`)
	persons, err := PersonTableFromTable(table)
	require.NoError(t, err)

	assert.Equal(t, 1, persons.DuplicateKeys)
	assert.Equal(t, 2, persons.InvalidIDs)
	assert.Equal(t, 3, persons.Len())

	p, ok := persons.Match("Smith J;Yale University;1985")
	require.True(t, ok)
	assert.Equal(t, uint64(7004212771), p.ScopusID)

	p, ok = persons.Match("Doe A;MIT")
	require.True(t, ok)
	assert.Equal(t, uint64(7004212771), p.ScopusID)

	p, ok = persons.Match("Big D;MIT;1992")
	require.True(t, ok)
	assert.Equal(t, uint64(57194467000), p.ScopusID)

	_, ok = persons.Match("Roe B;MIT;1990")
	assert.False(t, ok)

	// first row per identifier supplies the time-invariant columns
	p, ok = persons.Person(7004212771)
	require.True(t, ok)
	assert.Equal(t, "Smith, John", p.Name)
	assert.Equal(t, "1985", p.GradYear)
}

func TestPersonTableFromTable_MissingColumn(t *testing.T) {
	_, err := PersonTableFromTable(mustTable(t, "ID,name\nA,B\n"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestPersonTable_EmptyKeyNeverMatches(t *testing.T) {
	persons := NewPersonTable([]domain.Person{{IdentityKey: "", ScopusID: 1}})

	_, ok := persons.Match("")
	assert.False(t, ok)
	_, ok = persons.Person(1)
	assert.True(t, ok)
}

func TestParseScopusID(t *testing.T) {
	tests := []struct {
		input   string
		want    uint64
		wantErr bool
	}{
		{input: "7004212771", want: 7004212771},
		{input: "7004212771.0", want: 7004212771},
		{input: "5.7194467e10", want: 57194467000},
		{input: " 42 ", want: 42},
		{input: "12.5", wantErr: true},
		{input: "-3", wantErr: true},
		{input: "", wantErr: true},
		{input: "nan", wantErr: true},
		{input: "1e300", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseScopusID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadPersonTable_XLSXIdentifiersExact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persons.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"faculty", "scopus_id", "scopus_name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Smith J;Yale;1985", int64(7004212771), "Smith"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Roe B;MIT;2001", int64(1234567890123456), "Roe"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"Doe A;MIT;1990", int64(123456789012345678), "Doe"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	persons, err := LoadPersonTable(path)
	require.NoError(t, err)
	assert.Zero(t, persons.InvalidIDs)

	for key, want := range map[string]uint64{
		"Smith J;Yale;1985": 7004212771,
		"Roe B;MIT;2001":    1234567890123456,
		"Doe A;MIT;1990":    123456789012345678,
	} {
		p, ok := persons.Match(key)
		require.True(t, ok, key)
		assert.Equal(t, want, p.ScopusID, key)
	}
}
