package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toplinecli/internal/calendar"
)

func TestSmoothWeekends(t *testing.T) {
	days := calendar.MonthDays(2026, time.January)
	values := make([]float64, len(days))
	for i := range values {
		values[i] = 100
	}

	before := 0.0
	for _, v := range values {
		before += v
	}

	smoothWeekends(values, days, 0.3)

	after := 0.0
	for i, day := range days {
		after += values[i]
		if calendar.IsWeekend(day) {
			assert.InDelta(t, 70, values[i], 1e-9)
		} else {
			assert.Greater(t, values[i], 100.0)
		}
	}
	assert.InDelta(t, before, after, 1e-9)
}

func TestSmoothWeekendsZeroDamping(t *testing.T) {
	days := calendar.MonthDays(2026, time.January)
	values := make([]float64, len(days))
	for i := range values {
		values[i] = 100
	}

	smoothWeekends(values, days, 0)

	for _, v := range values {
		assert.Equal(t, 100.0, v)
	}
}

func TestSmoothWeekendsProportionalSpread(t *testing.T) {
	// Two weekdays with different values receive mass in proportion.
	days := []time.Time{
		time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), // Saturday
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), // Monday
		time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), // Tuesday
	}
	values := []float64{100, 200, 100}

	smoothWeekends(values, days, 0.5)

	require.InDelta(t, 50, values[0], 1e-9)
	// 50 redistributed as 2:1 across the weekdays.
	assert.InDelta(t, 200+50*2.0/3.0, values[1], 1e-9)
	assert.InDelta(t, 100+50*1.0/3.0, values[2], 1e-9)
}

func TestSmoothWeekendsZeroWeekdays(t *testing.T) {
	days := []time.Time{
		time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), // Saturday
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), // Monday
		time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), // Tuesday
	}
	values := []float64{90, 0, 0}

	smoothWeekends(values, days, 0.5)

	// Mass spreads evenly when the weekdays carry nothing.
	assert.InDelta(t, 45, values[0], 1e-9)
	assert.InDelta(t, 22.5, values[1], 1e-9)
	assert.InDelta(t, 22.5, values[2], 1e-9)
}
