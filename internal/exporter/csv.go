// Package exporter writes the forecast outputs: the canonical CSV and an
// Excel workbook with per-country index sheets.
package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"toplinecli/internal/forecast"
)

// WriteForecastCSV writes the daily forecast rows in date-then-country order
// as produced by the disaggregator.
func WriteForecastCSV(rows []forecast.DailyForecast, path string) error {
	if len(rows) == 0 {
		return fmt.Errorf("no forecast rows to export")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create forecast file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"Date", "Country", "Forecast",
		"Weekday", "Bucket",
		"DowIndex", "DomIndex", "MonthIndex", "HolidayIndex", "HolidayOffset",
		"UniformFallback",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Date.Format("2006-01-02"),
			row.Country,
			formatValue(row.Value),
			row.Weekday.String(),
			row.Bucket.String(),
			formatIndex(row.DowIndex),
			formatIndex(row.DomIndex),
			formatIndex(row.MonthIndex),
			formatIndex(row.HolidayIndex),
			strconv.Itoa(row.HolidayOffset),
			strconv.FormatBool(row.UniformFallback),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row %s/%s: %w", row.Country, row.Date.Format("2006-01-02"), err)
		}
	}

	return w.Error()
}

// formatValue renders a forecast value with stable monetary precision.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatIndex renders an index multiplier.
func formatIndex(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
