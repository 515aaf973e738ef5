package widgets

import (
	"math"
	"strings"
)

// Bar draws v (0..1) as a filled bar of the given width. Values above 1 are
// capped and any non-zero value gets at least one cell.
func Bar(v float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	fill := int(math.Round(v * float64(width)))
	if v > 0 && fill == 0 {
		fill = 1
	}

	return strings.Repeat("█", fill) + strings.Repeat("░", width-fill)
}
