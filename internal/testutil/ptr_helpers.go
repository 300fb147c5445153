package testutil

import "time"

// String returns a pointer to the given string
func String(s string) *string {
	return &s
}

// Int64 returns a pointer to the given int64
func Int64(i int64) *int64 {
	return &i
}

// Time returns a pointer to the given time.Time
func Time(t time.Time) *time.Time {
	return &t
}

// Date returns a pointer to midnight UTC of the given day
func Date(year int, month time.Month, day int) *time.Time {
	return Time(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}
