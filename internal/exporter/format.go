package exporter

import "strconv"

// FormatID renders a canonical identifier as a plain decimal integer.
func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
