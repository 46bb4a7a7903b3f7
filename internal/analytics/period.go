package analytics

import (
	"fmt"
	"time"
)

// Granularity selects the period bucket a timestamp is folded into.
type Granularity string

const (
	// GranularityDay buckets by calendar day (2006-01-02).
	GranularityDay Granularity = "day"
	// GranularityWeek buckets by ISO-8601 week (2006-W02).
	GranularityWeek Granularity = "week"
	// GranularityMonth buckets by calendar month (2006-01).
	GranularityMonth Granularity = "month"
)

// ParseGranularity maps a raw query value onto a Granularity. Anything
// unrecognised falls back to day.
func ParseGranularity(raw string) Granularity {
	switch Granularity(raw) {
	case GranularityWeek:
		return GranularityWeek
	case GranularityMonth:
		return GranularityMonth
	default:
		return GranularityDay
	}
}

// Bucket folds a timestamp into its period key. Timestamps are normalised
// to UTC first so two callers in different zones always derive the same
// key for the same instant.
func Bucket(t time.Time, g Granularity) string {
	t = t.UTC()
	switch g {
	case GranularityWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GranularityMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// DayKey is the day-granularity key used for financial series joins.
func DayKey(t time.Time) string {
	return Bucket(t, GranularityDay)
}
