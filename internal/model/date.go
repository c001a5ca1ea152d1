package model

import "time"

// DateOf normalizes an instant to its calendar day. Plan dates are stored
// and compared as UTC midnights built from the wall-clock date, so equality
// checks stay exact across driver round-trips.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
