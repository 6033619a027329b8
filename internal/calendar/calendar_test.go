package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketOf(t *testing.T) {
	bb := DefaultBucketBoundaries()

	tests := []struct {
		name string
		day  int
		want Bucket
	}{
		{"first day", 1, BucketEarly},
		{"early boundary", 10, BucketEarly},
		{"mid start", 11, BucketMid},
		{"mid boundary", 20, BucketMid},
		{"late start", 21, BucketLate},
		{"month end", 31, BucketLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bb.BucketOf(tt.day))
		})
	}
}

func TestBucketBoundariesIsValid(t *testing.T) {
	tests := []struct {
		name string
		bb   BucketBoundaries
		want bool
	}{
		{"default", DefaultBucketBoundaries(), true},
		{"custom", BucketBoundaries{EarlyEnd: 7, MidEnd: 14}, true},
		{"inverted", BucketBoundaries{EarlyEnd: 20, MidEnd: 10}, false},
		{"zero", BucketBoundaries{}, false},
		{"mid too late", BucketBoundaries{EarlyEnd: 10, MidEnd: 28}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bb.IsValid())
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{"january", 2026, time.January, 31},
		{"april", 2026, time.April, 30},
		{"february non-leap", 2026, time.February, 28},
		{"february leap", 2024, time.February, 29},
		{"february century non-leap", 1900, time.February, 28},
		{"february 400-year leap", 2000, time.February, 29},
		{"december", 2025, time.December, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestMonthDays(t *testing.T) {
	days := MonthDays(2026, time.January)
	require.Len(t, days, 31)

	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), days[0])
	assert.Equal(t, time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), days[30])

	for i := 1; i < len(days); i++ {
		assert.Equal(t, days[i-1].AddDate(0, 0, 1), days[i], "days must be consecutive")
	}
}

func TestIsWeekend(t *testing.T) {
	// 2026-01-03 is a Saturday.
	assert.True(t, IsWeekend(time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)))
	assert.True(t, IsWeekend(time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsWeekend(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsWeekend(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
}
