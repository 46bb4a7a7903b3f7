package analytics

import "time"

// GrowthRate returns the percentage change between the current total and
// the total of the prior same-length window. Growth is unmeasurable
// without a positive baseline, so a zero or negative previous total maps
// to 0 rather than an error or infinity.
func GrowthRate(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// PreviousWindow returns the window of identical length immediately
// preceding [start, end). The result is half-open: it ends exactly where
// the current window begins and never overlaps it.
func PreviousWindow(start, end time.Time) (time.Time, time.Time) {
	length := end.Sub(start)
	return start.Add(-length), start
}
