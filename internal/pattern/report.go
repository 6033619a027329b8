package pattern

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"toplinecli/internal/diagnostics"
)

// WriteLearningReport creates the human-readable summary of a learning run.
func WriteLearningReport(runID string, model *Model, diags *diagnostics.Collector, path string) error {
	if model == nil {
		return fmt.Errorf("no model to summarize")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "Topline Pattern Learning - Summary Report\n")
	fmt.Fprintf(file, "=========================================\n\n")
	fmt.Fprintf(file, "Run ID: %s\n", runID)
	fmt.Fprintf(file, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(file, "MODEL OVERVIEW\n")
	fmt.Fprintf(file, "--------------\n")
	fmt.Fprintf(file, "Countries Modeled: %d\n", len(model.Countries))
	fmt.Fprintf(file, "Holiday Window: %d days either side\n", model.HolidayWindow)
	fmt.Fprintf(file, "Bucket Boundaries: early 1-%d, mid %d-%d, late %d-end\n\n",
		model.Buckets.EarlyEnd, model.Buckets.EarlyEnd+1, model.Buckets.MidEnd, model.Buckets.MidEnd+1)

	fmt.Fprintf(file, "PER-COUNTRY PATTERNS\n")
	fmt.Fprintf(file, "--------------------\n")
	countries := model.CountryNames()
	sort.Strings(countries)
	for _, country := range countries {
		p := model.Countries[country]
		fmt.Fprintf(file, "%s: %d observations, %d outliers, base level %.2f",
			country, p.Observations, len(p.OutlierDates), p.BaseLevel)
		if p.DegenerateVariance {
			fmt.Fprintf(file, " [degenerate variance]")
		}
		fmt.Fprintf(file, "\n")
		fmt.Fprintf(file, "    Sun %.3f  Mon %.3f  Tue %.3f  Wed %.3f  Thu %.3f  Fri %.3f  Sat %.3f\n",
			p.DowIndex[0], p.DowIndex[1], p.DowIndex[2], p.DowIndex[3],
			p.DowIndex[4], p.DowIndex[5], p.DowIndex[6])
	}
	fmt.Fprintf(file, "\n")

	count := 0
	if diags != nil {
		count = diags.Len()
	}
	fmt.Fprintf(file, "DIAGNOSTICS (%d)\n", count)
	fmt.Fprintf(file, "----------------\n")
	if count == 0 {
		fmt.Fprintf(file, "none\n")
	} else {
		for _, d := range diags.All() {
			fmt.Fprintf(file, "%s\n", d.String())
		}
	}

	return nil
}
