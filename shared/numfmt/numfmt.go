// Package numfmt renders numbers for tool command lines and config files.
package numfmt

import (
	"math"
	"strconv"
	"strings"
)

// Float renders v as the shortest decimal that round-trips, always keeping a
// fractional part ("1.0", "0.75"), and switching to exponent form below 1e-4
// or from 1e16 upward ("1e-05", "1e+16").
func Float(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
