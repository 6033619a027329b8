// Package pattern learns per-country multiplicative calendar indices from
// historical daily actuals. The index families (day-of-week, day-of-month
// bucket, month, holiday offset) are estimated as an ordered pipeline, each
// family on the residuals of the families before it, and normalized so their
// frequency-weighted average is exactly 1.0.
package pattern

import (
	"math"
	"time"

	"toplinecli/internal/calendar"
)

// DailyActual is a single historical observation: revenue for one country on
// one date. Immutable once parsed.
type DailyActual struct {
	Date    time.Time `json:"date"`
	Country string    `json:"country"`
	Value   float64   `json:"value"`
}

// IsValid reports whether the observation carries a usable value. Zero and
// missing values are treated as gaps, not demand.
func (a DailyActual) IsValid() bool {
	return a.Country != "" && !a.Date.IsZero() &&
		a.Value > 0 && !math.IsNaN(a.Value) && !math.IsInf(a.Value, 0)
}

// Config contains the learning parameters.
type Config struct {
	MinObservations  int
	OutlierThreshold float64
	HolidayWindow    int
	TrimFraction     float64
	Buckets          calendar.BucketBoundaries
}

// DefaultConfig returns the recommended learning parameters.
func DefaultConfig() Config {
	return Config{
		MinObservations:  365,
		OutlierThreshold: 3.0,
		HolidayWindow:    3,
		TrimFraction:     0.05,
		Buckets:          calendar.DefaultBucketBoundaries(),
	}
}

// IsValid checks the learning parameters.
func (c Config) IsValid() bool {
	return c.MinObservations >= 1 && c.OutlierThreshold > 0 &&
		c.HolidayWindow >= 0 && c.TrimFraction >= 0 && c.TrimFraction < 0.5 &&
		c.Buckets.IsValid()
}

// CountryPattern holds the learned indices for a single country. All index
// families multiply against a flat daily share; each family's
// frequency-weighted average over its observed domain is 1.0, so the
// composition is drift-free before target matching.
type CountryPattern struct {
	// DowIndex is indexed by time.Weekday (Sunday = 0).
	DowIndex [7]float64

	// DomBucketIndex keys on the day-of-month bucket.
	DomBucketIndex map[calendar.Bucket]float64

	// MonthIndex is 1-based by calendar month; entry 0 is unused.
	MonthIndex [13]float64

	// HolidayIndex keys on the signed day-offset from a recognized holiday,
	// within the configured window. Offsets never observed stay at 1.0.
	HolidayIndex map[int]float64

	// BaseLevel is the trimmed mean of non-outlier daily values.
	BaseLevel float64

	// OutlierDates lists the historical dates excluded from index
	// estimation, as ISO dates. The raw records themselves are retained by
	// the caller.
	OutlierDates []string

	// Observations counts the distinct valid dates the pattern was
	// estimated from.
	Observations int

	// DegenerateVariance is set when all historical values were identical;
	// indices then default to 1.0 and no outliers are flagged.
	DegenerateVariance bool

	// MissingWeekdays lists weekdays with no observations, whose DowIndex
	// fell back to 1.0.
	MissingWeekdays []time.Weekday
}

// Model is the pattern store produced by one learning run. It is an explicit
// immutable value handed to the disaggregator, never ambient state.
type Model struct {
	LearnedAt     time.Time
	HolidayWindow int
	Buckets       calendar.BucketBoundaries
	Countries     map[string]*CountryPattern
}

// Pattern returns the learned pattern for a country, if present.
func (m *Model) Pattern(country string) (*CountryPattern, bool) {
	if m == nil {
		return nil, false
	}
	p, ok := m.Countries[country]
	return p, ok
}

// CountryNames returns the modeled countries (unsorted).
func (m *Model) CountryNames() []string {
	names := make([]string, 0, len(m.Countries))
	for name := range m.Countries {
		names = append(names, name)
	}
	return names
}
