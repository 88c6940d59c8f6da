package domain

import (
	"math"
	"strconv"
)

// FormatNumber renders large values with a word suffix for the results panel
// and popups: 2 decimals for billions and millions, 1 for thousands. Absent,
// zero and NaN values render as "0".
func FormatNumber(v *float64) string {
	if v == nil {
		return "0"
	}
	return FormatValue(*v)
}

// FormatValue is FormatNumber for a plain float.
func FormatValue(n float64) string {
	if n == 0 || math.IsNaN(n) {
		return "0"
	}
	switch {
	case n >= 1e9:
		return strconv.FormatFloat(n/1e9, 'f', 2, 64) + " billion"
	case n >= 1e6:
		return strconv.FormatFloat(n/1e6, 'f', 2, 64) + " million"
	case n >= 1e3:
		return strconv.FormatFloat(n/1e3, 'f', 1, 64) + " thousand"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// FormatDistance renders meters as "850 m" or "12.5 km".
func FormatDistance(m float64) string {
	if m >= 1000 {
		return strconv.FormatFloat(m/1000, 'f', 1, 64) + " km"
	}
	return strconv.FormatFloat(math.Round(m), 'f', 0, 64) + " m"
}
