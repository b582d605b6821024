// Package core holds the sales domain model, its input schemas and the pure
// aggregation helpers used by reports.
//
// This file contains the decimal formatting used for messages and exports.
package core

import (
	"strconv"
	"strings"
)

// FormatAmount renders v with two decimals, e.g. 20 -> "20.00".
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatDecimal renders v with the shortest exact representation and the given
// decimal mark, e.g. FormatDecimal(12.5, ',') -> "12,5".
//
// Exports use ',' to match spreadsheet locales that read ';'-separated files.
func FormatDecimal(v float64, mark rune) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if mark == '.' {
		return s
	}
	return strings.Replace(s, ".", string(mark), 1)
}
