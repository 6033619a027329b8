// Package forecast disaggregates monthly revenue targets into calibrated
// daily forecasts using a learned pattern model. Daily values for a month
// always sum to that month's target: the weights are normalized to shares
// within the month, so the constraint holds by construction rather than by
// correction.
package forecast

import (
	"fmt"
	"time"

	"toplinecli/internal/calendar"
)

// MonthlyTarget is one row of the forecast horizon: a revenue target for one
// country in one calendar month.
type MonthlyTarget struct {
	Year    int        `json:"year" validate:"min=1900,max=2200"`
	Month   time.Month `json:"month" validate:"min=1,max=12"`
	Country string     `json:"country" validate:"required"`
	Value   float64    `json:"value" validate:"gte=0"`
}

// Key returns the (country, month) identity of the target.
func (t MonthlyTarget) Key() string {
	return fmt.Sprintf("%s/%04d-%02d", t.Country, t.Year, int(t.Month))
}

// DailyForecast is one derived output row. Recomputed each run; the targets
// and the pattern model remain the authoritative inputs.
type DailyForecast struct {
	Date    time.Time `json:"date"`
	Country string    `json:"country"`
	Value   float64   `json:"value"`

	// Diagnostic calendar attributes and the indices applied.
	Weekday       time.Weekday    `json:"weekday"`
	Bucket        calendar.Bucket `json:"bucket"`
	DowIndex      float64         `json:"dow_index"`
	DomIndex      float64         `json:"dom_index"`
	MonthIndex    float64         `json:"month_index"`
	HolidayIndex  float64         `json:"holiday_index"`
	HolidayOffset int             `json:"holiday_offset"`
	HolidayName   string          `json:"holiday_name,omitempty"`

	// UniformFallback marks rows produced without a pattern (flat share).
	UniformFallback bool `json:"uniform_fallback,omitempty"`
}

// Options contains the disaggregation parameters.
type Options struct {
	// AdjustHolidays applies the holiday index family. Off by default: a
	// target month's holidays then receive no special multiplier.
	AdjustHolidays bool

	// SmoothWeekends redistributes part of each weekend day's share across
	// the rest of the month.
	SmoothWeekends bool

	// WeekendDamping is the fraction of a weekend day's share moved to the
	// remaining days when smoothing is on. Exposed as configuration; the
	// appropriate value is market-specific.
	WeekendDamping float64

	// ConstrainMonthly re-normalizes each month to its target after
	// optional adjustments and treats any residual mismatch as fatal.
	ConstrainMonthly bool

	// SumTolerance is the relative tolerance for the monthly sum check.
	SumTolerance float64
}

// DefaultOptions returns the recommended disaggregation parameters.
func DefaultOptions() Options {
	return Options{
		AdjustHolidays:   false,
		SmoothWeekends:   false,
		WeekendDamping:   0.30,
		ConstrainMonthly: true,
		SumTolerance:     1e-6,
	}
}

// IsValid checks the disaggregation parameters.
func (o Options) IsValid() bool {
	return o.WeekendDamping >= 0 && o.WeekendDamping <= 1 && o.SumTolerance > 0
}
