package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"facultypanel/internal/errors"
)

// missingValues are cell contents treated as null, matching the defaults of
// the spreadsheet tooling the rosters are curated with.
var missingValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a raw cell is a null value.
func IsMissing(cell string) bool {
	_, ok := missingValues[cell]
	return ok
}

// Table is a header plus rows of string cells. Every record has exactly
// len(Header) cells.
type Table struct {
	Header  []string
	Records [][]string
}

// ColumnIndex returns the position of a column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// RowMap returns the non-missing cells of record i keyed by column name.
func (t *Table) RowMap(i int) map[string]string {
	rec := t.Records[i]
	fields := make(map[string]string, len(t.Header))
	for j, h := range t.Header {
		if !IsMissing(rec[j]) {
			fields[h] = rec[j]
		}
	}
	return fields
}

// ReadTable reads a .csv or .xlsx file. For workbooks the first sheet is used
// and cells are read unformatted.
func ReadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.NewStorageError("failed to open file", err).WithContext("path", path)
		}
		defer f.Close()
		t, err := ReadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		return t, nil
	case ".xlsx":
		t, err := readXLSX(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		return t, nil
	default:
		return nil, errors.NewParsingError(fmt.Sprintf("unsupported file type %q", filepath.Ext(path)), nil).
			WithContext("path", path)
	}
}

// ReadCSV parses CSV data. A leading UTF-8 byte order mark is dropped.
func ReadCSV(r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to parse CSV", err)
	}
	return newTable(rows)
}

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParsingError("workbook has no sheets", nil)
	}
	// Raw values keep long numeric identifiers exact instead of "1.23E+17".
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.NewParsingError("failed to read sheet "+sheets[0], err)
	}
	return newTable(rows)
}

// newTable validates row widths and pads short rows. Rows with every cell
// empty are skipped.
func newTable(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, errors.NewParsingError("table has no header", nil)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	records := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		if len(row) > len(header) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("line %d: expected %d fields, saw %d", i+2, len(header), len(row)), nil)
		}
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		records = append(records, row)
	}

	return &Table{Header: header, Records: records}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
