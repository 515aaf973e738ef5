package app

// clamp clamps v into [min, max].
func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// colWidths spreads the available width over the name column, the metric
// columns and the trailing cpu bar.
func colWidths(total, metrics int) (wName, wMetric, wBar int) {
	minName, minMetric, minBar := 16, 16, 8

	base := minName + metrics*minMetric + minBar
	remain := total - base
	if remain < 0 {
		remain = 0
	}

	// favor the bar, give the rest to the name
	wBar = minBar + remain/2
	wName = minName + (remain - remain/2)
	wMetric = minMetric

	wBar = clamp(wBar, minBar, 30)
	wName = clamp(wName, 12, 48)
	return
}
