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
)

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantHeader  []string
		wantRecords [][]string
		expectError bool
	}{
		{
			name:        "plain",
			input:       "name,dep\nSmith J,Yale\n",
			wantHeader:  []string{"name", "dep"},
			wantRecords: [][]string{{"Smith J", "Yale"}},
		},
		{
			name:        "byte order mark is dropped",
			input:       "\ufeffname,dep\nSmith J,Yale\n",
			wantHeader:  []string{"name", "dep"},
			wantRecords: [][]string{{"Smith J", "Yale"}},
		},
		{
			name:        "short rows are padded",
			input:       "name,dep,rank\nSmith J,Yale\n",
			wantHeader:  []string{"name", "dep", "rank"},
			wantRecords: [][]string{{"Smith J", "Yale", ""}},
		},
		{
			name:        "header cells are trimmed",
			input:       " name , dep\nSmith J,Yale\n",
			wantHeader:  []string{"name", "dep"},
			wantRecords: [][]string{{"Smith J", "Yale"}},
		},
		{
			name:        "blank rows skipped",
			input:       "name,dep\n,\nSmith J,Yale\n",
			wantHeader:  []string{"name", "dep"},
			wantRecords: [][]string{{"Smith J", "Yale"}},
		},
		{
			name:        "too many fields",
			input:       "name,dep\nSmith J,Yale,extra\n",
			expectError: true,
		},
		{
			name:        "empty input",
			input:       "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadCSV(strings.NewReader(tt.input))
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHeader, table.Header)
			assert.Equal(t, tt.wantRecords, table.Records)
		})
	}
}

func TestTable_RowMap(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("name,school,grad_year\nSmith J,NA,\n"))
	require.NoError(t, err)

	fields := table.RowMap(0)
	assert.Equal(t, map[string]string{"name": "Smith J"}, fields)
	assert.Equal(t, 1, table.ColumnIndex("school"))
	assert.Equal(t, -1, table.ColumnIndex("rank"))
}

func TestIsMissing(t *testing.T) {
	for _, v := range []string{"", "NA", "NaN", "nan", "N/A", "NULL", "None"} {
		assert.True(t, IsMissing(v), v)
	}
	for _, v := range []string{"0", "Nanette", " ", "none of the above"} {
		assert.False(t, IsMissing(v), v)
	}
}

func TestReadTable(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv file", func(t *testing.T) {
		path := filepath.Join(dir, "1998.csv")
		require.NoError(t, os.WriteFile(path, []byte("name,dep\nSmith J,Yale\n"), 0644))

		table, err := ReadTable(path)
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"Smith J", "Yale"}}, table.Records)
	})

	t.Run("xlsx file", func(t *testing.T) {
		path := filepath.Join(dir, "1999.xlsx")
		f := excelize.NewFile()
		require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"name", "dep", "grad_year"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Doe A", "MIT", "85"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Roe B", "Yale"}))
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		table, err := ReadTable(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "dep", "grad_year"}, table.Header)
		assert.Equal(t, [][]string{{"Doe A", "MIT", "85"}, {"Roe B", "Yale", ""}}, table.Records)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadTable(filepath.Join(dir, "absent.csv"))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeStorage))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ReadTable(filepath.Join(dir, "notes.txt"))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
	})
}
