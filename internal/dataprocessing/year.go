package dataprocessing

import (
	"math"
	"strconv"
	"strings"
)

// CompleteYear adds missing century digits to a graduation year.
//
// Two digits map to the 1900s, one digit to the 2000s and three digits to
// the 1000s; zero becomes 2000 and four or more digits are kept. Values that
// do not parse as a number report false.
func CompleteYear(raw string) (string, bool) {
	y, ok := parseYear(raw)
	if !ok {
		return "", false
	}
	// no digit count at or below zero
	if y <= 0 {
		return "2000", true
	}
	switch len(strconv.FormatInt(y, 10)) {
	case 2:
		y += 1900
	case 1:
		y += 2000
	case 3:
		y += 1000
	}
	return strconv.FormatInt(y, 10), true
}

// parseYear accepts integers and floats; floats are truncated, which is how
// numeric columns holding blanks come back from spreadsheet exports ("55.0").
func parseYear(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if y, err := strconv.ParseInt(s, 10, 64); err == nil {
		return y, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if math.Abs(f) >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
