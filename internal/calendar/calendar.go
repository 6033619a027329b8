// Package calendar derives the calendar attributes the forecasting core keys
// its indices on: weekday, day-of-month bucket, and signed offset from a
// recognized holiday. It also hosts the pluggable holiday lookup the pattern
// learner and disaggregator consume.
package calendar

import (
	"time"
)

// Bucket represents the position of a day within its calendar month.
type Bucket string

const (
	// BucketEarly covers the start of the month (days 1..EarlyEnd).
	BucketEarly Bucket = "early"
	// BucketMid covers the middle of the month (days EarlyEnd+1..MidEnd).
	BucketMid Bucket = "mid"
	// BucketLate covers the end of the month (days MidEnd+1..last).
	BucketLate Bucket = "late"
)

// String returns the string representation of the bucket.
func (b Bucket) String() string {
	return string(b)
}

// Buckets lists all buckets in calendar order.
func Buckets() []Bucket {
	return []Bucket{BucketEarly, BucketMid, BucketLate}
}

// BucketBoundaries configures where the early and mid buckets end.
// The boundary rule is configuration, not a constant: payday clustering
// differs by market, so callers tune it per deployment.
type BucketBoundaries struct {
	EarlyEnd int `yaml:"early_end"`
	MidEnd   int `yaml:"mid_end"`
}

// DefaultBucketBoundaries returns the default day 1-10/11-20/21-end split.
func DefaultBucketBoundaries() BucketBoundaries {
	return BucketBoundaries{EarlyEnd: 10, MidEnd: 20}
}

// IsValid checks that the boundaries carve the month into three buckets.
func (bb BucketBoundaries) IsValid() bool {
	return bb.EarlyEnd >= 1 && bb.MidEnd > bb.EarlyEnd && bb.MidEnd < 28
}

// BucketOf returns the bucket for a day-of-month (1-based).
func (bb BucketBoundaries) BucketOf(day int) Bucket {
	switch {
	case day <= bb.EarlyEnd:
		return BucketEarly
	case day <= bb.MidEnd:
		return BucketMid
	default:
		return BucketLate
	}
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthDays enumerates every calendar day of the given month in order.
// Day attributes for forecasting are derived purely from this enumeration,
// never from historical data.
func MonthDays(year int, month time.Month) []time.Time {
	n := DaysInMonth(year, month)
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC)
	}
	return days
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
