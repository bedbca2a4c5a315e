package service

import "time"

// Period keywords accepted by the dashboard date filters.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// TimeRange is a half-open window [Start, End) over event timestamps.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// CanonicalPeriod collapses a raw period value onto the keyword ResolveRange
// actually honors, so unknown values share cache entries with the fallback.
func CanonicalPeriod(period, fallback string) string {
	switch period {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return period
	}
	return fallback
}

// ResolveRange maps a period keyword onto a concrete window anchored at now.
// Unknown or empty keywords fall back to the current day.
func ResolveRange(period string, now time.Time) TimeRange {
	var start time.Time
	switch period {
	case PeriodWeek:
		start = now.AddDate(0, 0, -7)
	case PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case PeriodYear:
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
	return TimeRange{Start: start, End: now}
}
