package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompleteYear(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "one digit", input: "5", want: "2005", wantOK: true},
		{name: "two digits", input: "55", want: "1955", wantOK: true},
		{name: "three digits", input: "555", want: "1555", wantOK: true},
		{name: "four digits unchanged", input: "5555", want: "5555", wantOK: true},
		{name: "zero", input: "0", want: "2000", wantOK: true},
		{name: "ten is two digits", input: "10", want: "1910", wantOK: true},
		{name: "ninety nine", input: "99", want: "1999", wantOK: true},
		{name: "hundred is three digits", input: "100", want: "1100", wantOK: true},
		{name: "full year", input: "1987", want: "1987", wantOK: true},
		{name: "leading zeros", input: "05", want: "2005", wantOK: true},
		{name: "surrounding spaces", input: " 72 ", want: "1972", wantOK: true},
		{name: "float from spreadsheet", input: "72.0", want: "1972", wantOK: true},
		{name: "negative takes zero branch", input: "-3", want: "2000", wantOK: true},
		{name: "non numeric", input: "n/a", wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "nan", input: "NaN", wantOK: false},
		{name: "infinity", input: "inf", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CompleteYear(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
