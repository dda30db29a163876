package service

import (
	"math"
	"time"
)

// utcDate truncates a timestamp to its UTC calendar date. Aggregation keys
// on UTC, not local time, so results are deterministic regardless of the
// trader's timezone.
func utcDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// round2 rounds to 2 decimals, matching how day-stat values are stored.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
