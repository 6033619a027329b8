package forecast

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"toplinecli/internal/pattern"
)

// WriteSummaryReport creates the human-readable summary of a forecast run.
func WriteSummaryReport(summary ValidationSummary, targets []MonthlyTarget, rows []DailyForecast, model *pattern.Model, path string) error {
	if len(rows) == 0 {
		return fmt.Errorf("no forecast rows to summarize")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "Topline Daily Forecast - Summary Report\n")
	fmt.Fprintf(file, "=======================================\n\n")
	fmt.Fprintf(file, "Run ID: %s\n", summary.RunID)
	fmt.Fprintf(file, "Generated: %s\n\n", summary.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(file, "RUN OVERVIEW\n")
	fmt.Fprintf(file, "------------\n")
	fmt.Fprintf(file, "Monthly Targets: %d\n", summary.TargetRows)
	fmt.Fprintf(file, "Daily Rows: %d\n", summary.ForecastRows)
	fmt.Fprintf(file, "Pattern Coverage: %.1f%%\n", summary.CoverageRatio*100)
	fmt.Fprintf(file, "Max Monthly Sum Error: %.2e\n", summary.MaxRelSumError)
	if model != nil {
		fmt.Fprintf(file, "Model Learned: %s (%d countries)\n",
			model.LearnedAt.Format("2006-01-02 15:04:05"), len(model.Countries))
	}
	fmt.Fprintf(file, "\n")

	fmt.Fprintf(file, "COUNTRY TOTALS\n")
	fmt.Fprintf(file, "--------------\n")
	totals := make(map[string]float64)
	for _, t := range targets {
		totals[t.Country] += t.Value
	}
	countries := make([]string, 0, len(totals))
	for country := range totals {
		countries = append(countries, country)
	}
	sort.Strings(countries)
	for _, country := range countries {
		line := fmt.Sprintf("%s: %.2f", country, totals[country])
		if ratio, ok := summary.DowConsistency[country]; ok {
			line += fmt.Sprintf(" (weekday/weekend ratio %.2f)", ratio)
		}
		fmt.Fprintf(file, "%s\n", line)
	}
	fmt.Fprintf(file, "\n")

	fmt.Fprintf(file, "PEAK AND TROUGH DAYS\n")
	fmt.Fprintf(file, "--------------------\n")
	writeExtremes(file, rows, countries)
	fmt.Fprintf(file, "\n")

	fmt.Fprintf(file, "DIAGNOSTICS (%d)\n", len(summary.Diagnostics))
	fmt.Fprintf(file, "----------------\n")
	if len(summary.Diagnostics) == 0 {
		fmt.Fprintf(file, "none\n")
	}
	for _, d := range summary.Diagnostics {
		fmt.Fprintf(file, "%s\n", d.String())
	}

	return nil
}

// writeExtremes lists each country's highest and lowest forecast day.
func writeExtremes(file *os.File, rows []DailyForecast, countries []string) {
	type extreme struct {
		min, max DailyForecast
		seen     bool
	}
	byCountry := make(map[string]*extreme)
	for _, row := range rows {
		e := byCountry[row.Country]
		if e == nil {
			e = &extreme{}
			byCountry[row.Country] = e
		}
		if !e.seen || row.Value > e.max.Value {
			e.max = row
		}
		if !e.seen || row.Value < e.min.Value {
			e.min = row
		}
		e.seen = true
	}

	for _, country := range countries {
		e := byCountry[country]
		if e == nil {
			continue
		}
		fmt.Fprintf(file, "%s: peak %.2f on %s (%s), trough %.2f on %s (%s)\n",
			country,
			e.max.Value, e.max.Date.Format("2006-01-02"), e.max.Weekday,
			e.min.Value, e.min.Date.Format("2006-01-02"), e.min.Weekday)
	}
}
