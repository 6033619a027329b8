package forecast

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"toplinecli/internal/diagnostics"
)

// ValidationSummary captures the run-level quality metrics written alongside
// the forecast outputs.
type ValidationSummary struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	TargetRows   int `json:"target_rows"`
	ForecastRows int `json:"forecast_rows"`

	// CoverageRatio is the fraction of targets forecast from a learned
	// pattern rather than the uniform fallback.
	CoverageRatio float64 `json:"coverage_ratio"`

	// MaxRelSumError is the worst monthly |sum - target| / target across
	// all nonzero targets.
	MaxRelSumError float64 `json:"max_rel_sum_error"`

	// DowConsistency reports, per country, the forecast's average weekday
	// value divided by its average weekend value. A useful smoke signal for
	// whether the learned weekday shape survived disaggregation.
	DowConsistency map[string]float64 `json:"dow_consistency"`

	Diagnostics []diagnostics.Diagnostic `json:"diagnostics"`
}

// Validate computes the run summary from the targets, the produced rows and
// the collected diagnostics.
func Validate(runID string, targets []MonthlyTarget, rows []DailyForecast, diags *diagnostics.Collector) ValidationSummary {
	if runID == "" {
		runID = uuid.New().String()
	}

	summary := ValidationSummary{
		RunID:          runID,
		GeneratedAt:    time.Now().UTC(),
		TargetRows:     len(targets),
		ForecastRows:   len(rows),
		DowConsistency: make(map[string]float64),
	}
	if diags != nil {
		summary.Diagnostics = diags.All()
	}

	// Monthly sums and fallback coverage per target.
	sums := make(map[string]float64, len(targets))
	fallback := make(map[string]bool, len(targets))
	for _, row := range rows {
		key := MonthlyTarget{Year: row.Date.Year(), Month: row.Date.Month(), Country: row.Country}.Key()
		sums[key] += row.Value
		if row.UniformFallback {
			fallback[key] = true
		}
	}

	modeled := 0
	for _, t := range targets {
		if !fallback[t.Key()] {
			modeled++
		}
		if t.Value > 0 {
			relErr := math.Abs(sums[t.Key()]-t.Value) / t.Value
			if relErr > summary.MaxRelSumError {
				summary.MaxRelSumError = relErr
			}
		}
	}
	if len(targets) > 0 {
		summary.CoverageRatio = float64(modeled) / float64(len(targets))
	}

	type split struct {
		weekdaySum float64
		weekdays   int
		weekendSum float64
		weekends   int
	}
	byCountry := make(map[string]*split)
	for _, row := range rows {
		s := byCountry[row.Country]
		if s == nil {
			s = &split{}
			byCountry[row.Country] = s
		}
		if row.Weekday == time.Saturday || row.Weekday == time.Sunday {
			s.weekendSum += row.Value
			s.weekends++
		} else {
			s.weekdaySum += row.Value
			s.weekdays++
		}
	}
	for country, s := range byCountry {
		if s.weekdays == 0 || s.weekends == 0 || s.weekendSum == 0 {
			continue
		}
		summary.DowConsistency[country] = (s.weekdaySum / float64(s.weekdays)) / (s.weekendSum / float64(s.weekends))
	}

	return summary
}

// WriteValidationJSON writes the summary as indented JSON.
func WriteValidationJSON(summary ValidationSummary, path string) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal validation summary: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write validation summary: %w", err)
	}

	return nil
}
