package forecast

import (
	"time"

	"toplinecli/internal/calendar"
)

// smoothWeekends moves a fraction of each weekend day's value onto the
// month's weekdays, in proportion to their existing values. The month total
// is unchanged: what leaves the weekend arrives on the weekdays in the same
// pass.
func smoothWeekends(values []float64, days []time.Time, damping float64) {
	if damping <= 0 {
		return
	}

	var removed float64
	var weekdayTotal float64
	for i, day := range days {
		if calendar.IsWeekend(day) {
			shift := values[i] * damping
			values[i] -= shift
			removed += shift
		} else {
			weekdayTotal += values[i]
		}
	}

	if removed == 0 {
		return
	}

	if weekdayTotal == 0 {
		// All-weekend month cannot exist; this covers weekdays that are all
		// zero. Spread evenly over them instead of proportionally.
		var weekdays int
		for _, day := range days {
			if !calendar.IsWeekend(day) {
				weekdays++
			}
		}
		if weekdays == 0 {
			// Nothing to receive the mass; undo the damping.
			for i, day := range days {
				if calendar.IsWeekend(day) {
					values[i] /= 1 - damping
				}
			}
			return
		}
		share := removed / float64(weekdays)
		for i, day := range days {
			if !calendar.IsWeekend(day) {
				values[i] += share
			}
		}
		return
	}

	for i, day := range days {
		if !calendar.IsWeekend(day) {
			values[i] += removed * values[i] / weekdayTotal
		}
	}
}
