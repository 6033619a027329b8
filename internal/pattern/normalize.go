package pattern

import (
	"toplinecli/internal/calendar"
)

// Each index family is rescaled after estimation so that its average,
// weighted by the historical frequency of each domain entry, equals 1.0
// exactly. Entries that never occurred keep their 1.0 fallback and carry
// zero weight, so they cannot pull the composed product off the target sum.

// weightedAverage computes sum(w*v)/sum(w). Returns 1 when all weights are
// zero so callers can divide by it unconditionally.
func weightedAverage(vals []float64, weights []int) float64 {
	var num float64
	var den float64
	for i, v := range vals {
		num += v * float64(weights[i])
		den += float64(weights[i])
	}
	if den == 0 || num == 0 {
		return 1
	}
	return num / den
}

// rescaleDow normalizes the day-of-week family in place.
func rescaleDow(idx *[7]float64, counts [7]int) {
	avg := weightedAverage(idx[:], counts[:])
	for wd := 0; wd < 7; wd++ {
		if counts[wd] > 0 {
			idx[wd] /= avg
		}
	}
}

// rescaleBuckets normalizes the day-of-month bucket family in place.
func rescaleBuckets(idx map[calendar.Bucket]float64, counts map[calendar.Bucket]int) {
	buckets := calendar.Buckets()
	vals := make([]float64, len(buckets))
	weights := make([]int, len(buckets))
	for i, b := range buckets {
		vals[i] = idx[b]
		weights[i] = counts[b]
	}

	avg := weightedAverage(vals, weights)
	for _, b := range buckets {
		if counts[b] > 0 {
			idx[b] /= avg
		}
	}
}

// rescaleMonths normalizes the seasonal family in place.
func rescaleMonths(idx *[13]float64, counts [13]int) {
	avg := weightedAverage(idx[1:], counts[1:])
	for m := 1; m <= 12; m++ {
		if counts[m] > 0 {
			idx[m] /= avg
		}
	}
}

// rescaleOffsets normalizes the holiday-offset family in place.
func rescaleOffsets(idx map[int]float64, counts map[int]int, window int) {
	vals := make([]float64, 0, 2*window+1)
	weights := make([]int, 0, 2*window+1)
	for off := -window; off <= window; off++ {
		vals = append(vals, idx[off])
		weights = append(weights, counts[off])
	}

	avg := weightedAverage(vals, weights)
	for off := -window; off <= window; off++ {
		if counts[off] > 0 {
			idx[off] /= avg
		}
	}
}
