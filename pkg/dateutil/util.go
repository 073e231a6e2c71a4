package dateutil

import "time"

const DayLayout = "2006-01-02"

// DaysAgo returns the unix millisecond time n days before t.
func DaysAgo(t time.Time, n int) int64 {
	return t.Add(-time.Duration(n) * 24 * time.Hour).UnixMilli()
}

// Day returns the UTC date of t.
func Day(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// EndOfDay returns the last millisecond of the UTC day of t.
func EndOfDay(t time.Time) int64 {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC).UnixMilli() - 1
}
