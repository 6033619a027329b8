package pattern

import (
	"time"

	"toplinecli/internal/calendar"
)

// The index families are estimated in a fixed order — weekday, day-of-month
// bucket, month, holiday — each on the residuals of the families before it.
// The ordering deconfounds correlated effects (a payday landing on a Friday
// must not be counted twice) and any change to it changes the model.

// estimateDowIndex computes the day-of-week index family as ratio-to-mean of
// raw values. Weekdays with no observations fall back to 1.0 and are
// reported to the caller.
func estimateDowIndex(obs []DailyActual) (idx [7]float64, counts [7]int, missing []time.Weekday) {
	var sums [7]float64
	for _, a := range obs {
		wd := a.Date.Weekday()
		sums[wd] += a.Value
		counts[wd]++
	}

	overall := mean(values(obs))
	for wd := 0; wd < 7; wd++ {
		if counts[wd] == 0 || overall == 0 {
			idx[wd] = 1.0
			if counts[wd] == 0 {
				missing = append(missing, time.Weekday(wd))
			}
			continue
		}
		idx[wd] = (sums[wd] / float64(counts[wd])) / overall
	}

	rescaleDow(&idx, counts)
	return idx, counts, missing
}

// estimateDomBucketIndex computes the day-of-month bucket index on residuals
// with the weekday effect divided out.
func estimateDomBucketIndex(obs []DailyActual, dow [7]float64, buckets calendar.BucketBoundaries) map[calendar.Bucket]float64 {
	sums := make(map[calendar.Bucket]float64)
	counts := make(map[calendar.Bucket]int)

	var residuals []float64
	for _, a := range obs {
		r := a.Value / dow[a.Date.Weekday()]
		b := buckets.BucketOf(a.Date.Day())
		sums[b] += r
		counts[b]++
		residuals = append(residuals, r)
	}

	overall := mean(residuals)
	idx := make(map[calendar.Bucket]float64, 3)
	for _, b := range calendar.Buckets() {
		if counts[b] == 0 || overall == 0 {
			idx[b] = 1.0
			continue
		}
		idx[b] = (sums[b] / float64(counts[b])) / overall
	}

	rescaleBuckets(idx, counts)
	return idx
}

// estimateMonthIndex computes the seasonal index on residuals with weekday
// and day-of-month effects divided out.
func estimateMonthIndex(obs []DailyActual, dow [7]float64, dom map[calendar.Bucket]float64, buckets calendar.BucketBoundaries) [13]float64 {
	var sums [13]float64
	var counts [13]int

	var residuals []float64
	for _, a := range obs {
		r := a.Value / (dow[a.Date.Weekday()] * dom[buckets.BucketOf(a.Date.Day())])
		m := int(a.Date.Month())
		sums[m] += r
		counts[m]++
		residuals = append(residuals, r)
	}

	overall := mean(residuals)
	var idx [13]float64
	for m := 1; m <= 12; m++ {
		if counts[m] == 0 || overall == 0 {
			idx[m] = 1.0
			continue
		}
		idx[m] = (sums[m] / float64(counts[m])) / overall
	}

	rescaleMonths(&idx, counts)
	return idx
}

// estimateHolidayIndex computes the holiday-offset index from residual
// ratios value / (dow * dom * month * base level) across all historical
// occurrences of each signed offset. Offsets with no occurrences stay 1.0.
func estimateHolidayIndex(obs []DailyActual, country string, holidays calendar.HolidaySource,
	window int, dow [7]float64, dom map[calendar.Bucket]float64, month [13]float64,
	buckets calendar.BucketBoundaries, baseLevel float64) map[int]float64 {

	idx := make(map[int]float64, 2*window+1)
	for off := -window; off <= window; off++ {
		idx[off] = 1.0
	}
	if holidays == nil || window < 0 || baseLevel == 0 {
		return idx
	}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, a := range obs {
		off, ok := calendar.HolidayOffset(holidays, country, a.Date, window)
		if !ok {
			continue
		}
		expected := dow[a.Date.Weekday()] * dom[buckets.BucketOf(a.Date.Day())] * month[int(a.Date.Month())] * baseLevel
		if expected == 0 {
			continue
		}
		sums[off] += a.Value / expected
		counts[off]++
	}

	for off, n := range counts {
		idx[off] = sums[off] / float64(n)
	}

	rescaleOffsets(idx, counts, window)
	return idx
}
