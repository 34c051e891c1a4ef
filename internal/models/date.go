package models

import "time"

// DateOnly truncates t to a UTC calendar date. Observation dates and the
// cadence gate compare at day granularity only.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
