package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"toplinecli/internal/calendar"
	"toplinecli/internal/diagnostics"
	"toplinecli/internal/pattern"
)

// Disaggregator splits monthly targets into daily forecasts using a learned
// pattern model. The model is read-only; forecasting is a pure function of
// (targets, model, options).
type Disaggregator struct {
	model    *pattern.Model
	holidays calendar.HolidaySource
	opts     Options
	logger   *slog.Logger
	diags    *diagnostics.Collector
}

// NewDisaggregator creates a disaggregator for the given model.
func NewDisaggregator(model *pattern.Model, holidays calendar.HolidaySource, opts Options, logger *slog.Logger, diags *diagnostics.Collector) *Disaggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if diags == nil {
		diags = diagnostics.NewCollector(logger)
	}
	if holidays == nil {
		holidays = calendar.NoHolidays{}
	}
	return &Disaggregator{
		model:    model,
		holidays: holidays,
		opts:     opts,
		logger:   logger,
		diags:    diags,
	}
}

// Forecast produces one row per calendar day for every (country, month)
// target. Every target yields either a full month of rows or an explicit
// skip diagnostic; nothing is silently truncated. A monthly sum that cannot
// be reconciled within tolerance is a defect in index normalization and
// fails the run.
func (d *Disaggregator) Forecast(ctx context.Context, targets []MonthlyTarget) ([]DailyForecast, error) {
	start := time.Now()

	if d.model == nil {
		return nil, fmt.Errorf("no pattern model")
	}
	if !d.opts.IsValid() {
		return nil, fmt.Errorf("invalid forecast options")
	}

	d.logger.InfoContext(ctx, "starting disaggregation",
		"targets", len(targets),
		"adjust_holidays", d.opts.AdjustHolidays,
		"smooth_weekends", d.opts.SmoothWeekends,
		"constrain_monthly", d.opts.ConstrainMonthly,
	)

	var all []DailyForecast
	for _, target := range targets {
		rows, err := d.forecastMonth(target)
		if err != nil {
			return nil, fmt.Errorf("forecast %s: %w", target.Key(), err)
		}
		all = append(all, rows...)
	}

	d.logger.InfoContext(ctx, "disaggregation completed",
		"duration", time.Since(start),
		"forecast_rows", len(all),
		"diagnostics", d.diags.Len(),
	)

	return all, nil
}

// forecastMonth produces the daily rows for a single (country, month) target.
func (d *Disaggregator) forecastMonth(target MonthlyTarget) ([]DailyForecast, error) {
	days := calendar.MonthDays(target.Year, target.Month)

	p, ok := d.model.Pattern(target.Country)
	if !ok {
		d.diags.Warnf(diagnostics.CodeUnmatchedCountry, target.Country,
			"no pattern for %s", target.Key())
		return d.uniformMonth(target, days), nil
	}

	rows := make([]DailyForecast, len(days))
	weights := make([]float64, len(days))
	var weightSum float64

	for i, day := range days {
		row := d.describeDay(target.Country, day, p)
		w := row.DowIndex * row.DomIndex * row.MonthIndex * row.HolidayIndex
		weights[i] = w
		weightSum += w
		rows[i] = row
	}

	if weightSum == 0 || math.IsNaN(weightSum) {
		d.diags.Warnf(diagnostics.CodeZeroWeightSum, target.Country,
			"degenerate weights for %s", target.Key())
		return d.uniformMonth(target, days), nil
	}

	// The core disaggregation: weights become shares of the target within
	// the month, so the monthly sum is exact by construction.
	values := make([]float64, len(days))
	for i := range days {
		values[i] = weights[i] / weightSum * target.Value
	}

	if d.opts.SmoothWeekends {
		smoothWeekends(values, days, d.opts.WeekendDamping)
	}

	if d.opts.ConstrainMonthly {
		if err := d.constrainMonth(values, target); err != nil {
			return nil, err
		}
	}

	for i := range rows {
		rows[i].Value = values[i]
	}
	return rows, nil
}

// describeDay computes a day's calendar attributes and applied indices.
func (d *Disaggregator) describeDay(country string, day time.Time, p *pattern.CountryPattern) DailyForecast {
	row := DailyForecast{
		Date:         day,
		Country:      country,
		Weekday:      day.Weekday(),
		Bucket:       d.model.Buckets.BucketOf(day.Day()),
		DowIndex:     p.DowIndex[day.Weekday()],
		MonthIndex:   p.MonthIndex[int(day.Month())],
		HolidayIndex: 1.0,
	}
	row.DomIndex = p.DomBucketIndex[row.Bucket]
	if row.DomIndex == 0 {
		row.DomIndex = 1.0
	}

	if d.opts.AdjustHolidays {
		if off, ok := calendar.HolidayOffset(d.holidays, country, day, d.model.HolidayWindow); ok {
			row.HolidayOffset = off
			if idx, exists := p.HolidayIndex[off]; exists && idx > 0 {
				row.HolidayIndex = idx
			}
			if h, isHoliday := d.holidays.Lookup(country, day); isHoliday {
				row.HolidayName = h.Name
			}
		}
	}

	return row
}

// uniformMonth produces the flat-share fallback: target spread evenly over
// the month's days. Used when no pattern exists for the country.
func (d *Disaggregator) uniformMonth(target MonthlyTarget, days []time.Time) []DailyForecast {
	d.diags.Infof(diagnostics.CodeUniformFallback, target.Country,
		"uniform daily share applied to %s", target.Key())

	share := 0.0
	if len(days) > 0 {
		share = target.Value / float64(len(days))
	}

	rows := make([]DailyForecast, len(days))
	for i, day := range days {
		rows[i] = DailyForecast{
			Date:            day,
			Country:         target.Country,
			Value:           share,
			Weekday:         day.Weekday(),
			Bucket:          d.model.Buckets.BucketOf(day.Day()),
			DowIndex:        1.0,
			DomIndex:        1.0,
			MonthIndex:      1.0,
			HolidayIndex:    1.0,
			UniformFallback: true,
		}
	}
	return rows
}

// constrainMonth verifies the monthly sum and applies at most one rescale
// pass to absorb smoothing drift. A mismatch that survives the rescale is an
// invariant violation, not a data-quality issue, and must not be silently
// corrected further.
func (d *Disaggregator) constrainMonth(values []float64, target MonthlyTarget) error {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return fmt.Errorf("daily sum is not finite")
	}

	if target.Value == 0 {
		// Zero target: every day is zero, nothing to rescale.
		if sum != 0 {
			return fmt.Errorf("nonzero daily sum %g for zero target", sum)
		}
		return nil
	}

	relErr := math.Abs(sum-target.Value) / math.Abs(target.Value)
	if relErr <= d.opts.SumTolerance {
		return nil
	}

	// Single correction pass.
	ratio := target.Value / sum
	for i := range values {
		values[i] *= ratio
	}

	sum = 0.0
	for _, v := range values {
		sum += v
	}
	relErr = math.Abs(sum-target.Value) / math.Abs(target.Value)
	if relErr > d.opts.SumTolerance {
		return fmt.Errorf("monthly sum %g does not match target %g after rescale (relative error %g)",
			sum, target.Value, relErr)
	}

	return nil
}
