package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"toplinecli/internal/forecast"
)

func TestApplyFlagOverrides(t *testing.T) {
	base := forecast.Options{
		AdjustHolidays:   true,
		SmoothWeekends:   true,
		WeekendDamping:   0.30,
		ConstrainMonthly: true,
		SumTolerance:     1e-6,
	}

	tests := []struct {
		name           string
		set            map[string]bool
		adjustHolidays bool
		smoothWeekends bool
		weekendDamping float64
		want           forecast.Options
	}{
		{
			name: "no flags leave config alone",
			set:  map[string]bool{},
			want: base,
		},
		{
			name:           "flags can disable configured options",
			set:            map[string]bool{"adjust-holidays": true, "smooth-weekends": true},
			adjustHolidays: false,
			smoothWeekends: false,
			want: forecast.Options{
				AdjustHolidays:   false,
				SmoothWeekends:   false,
				WeekendDamping:   0.30,
				ConstrainMonthly: true,
				SumTolerance:     1e-6,
			},
		},
		{
			name:           "explicit zero damping wins over config",
			set:            map[string]bool{"weekend-damping": true},
			weekendDamping: 0,
			want: forecast.Options{
				AdjustHolidays:   true,
				SmoothWeekends:   true,
				WeekendDamping:   0,
				ConstrainMonthly: true,
				SumTolerance:     1e-6,
			},
		},
		{
			name:           "unset flag values ignored",
			set:            map[string]bool{},
			adjustHolidays: false,
			weekendDamping: 0.9,
			want:           base,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := base
			applyFlagOverrides(&opts, tt.set, tt.adjustHolidays, tt.smoothWeekends, tt.weekendDamping)
			assert.Equal(t, tt.want, opts)
		})
	}
}
