package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toplinecli/internal/calendar"
	"toplinecli/internal/forecast"
)

func sampleRows() []forecast.DailyForecast {
	return []forecast.DailyForecast{
		{
			Date:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Country:      "US",
			Value:        98765.4321,
			Weekday:      time.Thursday,
			Bucket:       calendar.BucketEarly,
			DowIndex:     1.0,
			DomIndex:     1.05,
			MonthIndex:   0.9,
			HolidayIndex: 2.0,
		},
		{
			Date:            time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			Country:         "BR",
			Value:           1000,
			Weekday:         time.Friday,
			Bucket:          calendar.BucketEarly,
			DowIndex:        1.0,
			DomIndex:        1.0,
			MonthIndex:      1.0,
			HolidayIndex:    1.0,
			UniformFallback: true,
		},
	}
}

func TestWriteForecastCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "daily_forecast.csv")

	require.NoError(t, WriteForecastCSV(sampleRows(), path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"Date", "Country", "Forecast",
		"Weekday", "Bucket",
		"DowIndex", "DomIndex", "MonthIndex", "HolidayIndex", "HolidayOffset",
		"UniformFallback",
	}, records[0])

	assert.Equal(t, "2026-01-01", records[1][0])
	assert.Equal(t, "US", records[1][1])
	assert.Equal(t, "98765.43", records[1][2])
	assert.Equal(t, "Thursday", records[1][3])
	assert.Equal(t, "early", records[1][4])
	assert.Equal(t, "false", records[1][10])

	assert.Equal(t, "true", records[2][10])
}

func TestWriteForecastCSVEmpty(t *testing.T) {
	err := WriteForecastCSV(nil, filepath.Join(t.TempDir(), "out.csv"))
	require.Error(t, err)
}
