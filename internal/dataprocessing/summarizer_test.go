package dataprocessing

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toplinecli/internal/pattern"
)

func TestSummarizeHistory(t *testing.T) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // Monday
	var actuals []pattern.DailyActual
	for i := 0; i < 10; i++ {
		actuals = append(actuals, pattern.DailyActual{
			Date:    start.AddDate(0, 0, i),
			Country: "US",
			Value:   100,
		})
	}
	// Duplicate date, invalid value, second country.
	actuals = append(actuals,
		pattern.DailyActual{Date: start, Country: "US", Value: 100},
		pattern.DailyActual{Date: start.AddDate(0, 0, 20), Country: "US", Value: 0},
		pattern.DailyActual{Date: start, Country: "DE", Value: 50},
	)

	summaries := SummarizeHistory(actuals)
	require.Len(t, summaries, 2)

	// Sorted by country.
	assert.Equal(t, "DE", summaries[0].Country)
	assert.Equal(t, 1, summaries[0].DistinctDates)

	us := summaries[1]
	assert.Equal(t, "US", us.Country)
	assert.Equal(t, 10, us.DistinctDates)
	assert.Equal(t, 10, us.SpanDays)
	assert.Equal(t, start, us.FirstDate)
	assert.Equal(t, start.AddDate(0, 0, 9), us.LastDate)
	assert.Equal(t, 7, us.WeekdayCoverage())
	assert.InDelta(t, 1100, us.Total, 1e-9)
}

func TestWriteHistoryCSV(t *testing.T) {
	summaries := SummarizeHistory([]pattern.DailyActual{
		{Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Country: "US", Value: 100},
		{Date: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), Country: "US", Value: 200},
	})
	path := filepath.Join(t.TempDir(), "reports", "history_summary.csv")

	require.NoError(t, WriteHistoryCSV(summaries, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Country", records[0][0])
	assert.Equal(t, "US", records[1][0])
	assert.Equal(t, "2026-01-01", records[1][1])
	assert.Equal(t, "2", records[1][3])
}
