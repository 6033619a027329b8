package pattern

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"toplinecli/internal/calendar"
)

func TestTrimmedMean(t *testing.T) {
	tests := []struct {
		name     string
		vals     []float64
		fraction float64
		want     float64
	}{
		{"empty", nil, 0.05, 0},
		{"single", []float64{42}, 0.05, 42},
		{"no trim needed", []float64{1, 2, 3}, 0.05, 2},
		{"tails dropped", []float64{1000, 10, 10, 10, 10, 10, 10, 10, 10, -1000}, 0.1, 10},
		{"over-trim falls back to mean", []float64{1, 2}, 0.45, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, trimmedMean(tt.vals, tt.fraction), 1e-9)
		})
	}
}

func TestStddev(t *testing.T) {
	assert.Equal(t, 0.0, stddev(nil))
	assert.Equal(t, 0.0, stddev([]float64{5}))
	assert.InDelta(t, 2.0, stddev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
	assert.Equal(t, 0.0, stddev([]float64{3, 3, 3, 3}))
}

func TestIsDegenerate(t *testing.T) {
	assert.True(t, isDegenerate([]float64{100, 100, 100}))
	assert.False(t, isDegenerate([]float64{100, 100.1, 100}))
}

func TestDetectOutliersIdempotent(t *testing.T) {
	obs := makeHistory("US", historyStart, 730, func(day time.Time) float64 {
		if day.Equal(time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)) {
			return 1000.0
		}
		return weekdayShaped(100)(day)
	})

	first := detectOutliers(obs, 3.0, "US", calendar.NoHolidays{}, 3)
	second := detectOutliers(obs, 3.0, "US", calendar.NoHolidays{}, 3)

	assert.Equal(t, first, second)
	assert.True(t, first["2024-06-12"])
	assert.Len(t, first, 1)
}

func TestDetectOutliersDegenerateVariance(t *testing.T) {
	obs := makeHistory("US", historyStart, 50, func(time.Time) float64 { return 100.0 })
	assert.Empty(t, detectOutliers(obs, 3.0, "US", calendar.NoHolidays{}, 3))
}

func TestDetectOutliersThreshold(t *testing.T) {
	spikeDate := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	obs := makeHistory("US", historyStart, 730, func(day time.Time) float64 {
		if day.Equal(spikeDate) {
			return 1000.0
		}
		return weekdayShaped(100)(day)
	})

	// A looser threshold keeps the spike.
	loose := detectOutliers(obs, 50.0, "US", calendar.NoHolidays{}, 3)
	assert.Empty(t, loose)

	strict := detectOutliers(obs, 3.0, "US", calendar.NoHolidays{}, 3)
	assert.True(t, strict[spikeDate.Format("2006-01-02")])
}
