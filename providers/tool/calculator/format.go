package calculator

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders v the way clients of the calculator expect: integers
// without a decimal point, the shortest round-tripping decimal otherwise,
// exponent notation below 1e-6 and from 1e21 upwards, and "Infinity",
// "-Infinity" or "NaN" for non-finite values.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		formatted := strconv.FormatFloat(v, 'e', -1, 64)
		mantissa, exponent, _ := strings.Cut(formatted, "e")
		sign := exponent[0]
		digits := strings.TrimLeft(exponent[1:], "0")
		return mantissa + "e" + string(sign) + digits
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
