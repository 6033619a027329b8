package pattern

import (
	"math"
	"sort"

	"toplinecli/internal/calendar"
)

// epsilonVariance is the standard deviation below which a country's history
// is treated as degenerate (all values identical).
const epsilonVariance = 1e-9

// detectOutliers flags dates whose value deviates from the same-weekday
// historical mean by more than threshold standard deviations. Dates inside a
// holiday window are never flagged: a recurring spike near a holiday is
// signal for the holiday index, not noise.
//
// Returns the set of flagged date keys (ISO format). With degenerate
// variance no outliers are flagged.
func detectOutliers(obs []DailyActual, threshold float64, country string, holidays calendar.HolidaySource, window int) map[string]bool {
	outliers := make(map[string]bool)
	if len(obs) < 2 {
		return outliers
	}

	std := stddev(values(obs))
	if std < epsilonVariance {
		return outliers
	}

	// Same-weekday baseline
	var wdSum [7]float64
	var wdCount [7]int
	for _, a := range obs {
		wd := a.Date.Weekday()
		wdSum[wd] += a.Value
		wdCount[wd]++
	}

	for _, a := range obs {
		wd := a.Date.Weekday()
		if wdCount[wd] == 0 {
			continue
		}
		baseline := wdSum[wd] / float64(wdCount[wd])
		if math.Abs(a.Value-baseline) <= threshold*std {
			continue
		}
		// Holiday window takes precedence over statistical exclusion.
		if _, near := calendar.HolidayOffset(holidays, country, a.Date, window); near {
			continue
		}
		outliers[a.Date.Format("2006-01-02")] = true
	}

	return outliers
}

// isDegenerate reports whether the values have effectively zero variance.
func isDegenerate(vals []float64) bool {
	return stddev(vals) < epsilonVariance
}

// values extracts the value column.
func values(obs []DailyActual) []float64 {
	vals := make([]float64, len(obs))
	for i, a := range obs {
		vals[i] = a.Value
	}
	return vals
}

// mean computes the arithmetic mean. Returns 0 for empty input.
func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stddev computes the population standard deviation.
func stddev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	sumSquared := 0.0
	for _, v := range vals {
		sumSquared += (v - m) * (v - m)
	}
	return math.Sqrt(sumSquared / float64(len(vals)))
}

// trimmedMean averages the values after dropping the configured fraction
// from each tail. Falls back to the plain mean when trimming would consume
// everything.
func trimmedMean(vals []float64, fraction float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	trim := int(float64(len(sorted)) * fraction)
	if 2*trim >= len(sorted) {
		return mean(sorted)
	}
	return mean(sorted[trim : len(sorted)-trim])
}
