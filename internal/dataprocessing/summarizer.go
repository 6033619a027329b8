package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"toplinecli/internal/pattern"
)

// CountryHistory summarizes one country's historical window before learning.
type CountryHistory struct {
	Country       string
	FirstDate     time.Time
	LastDate      time.Time
	DistinctDates int
	SpanDays      int
	Total         float64
	WeekdayCounts [7]int
}

// WeekdayCoverage counts the weekdays with at least one observation.
func (h CountryHistory) WeekdayCoverage() int {
	covered := 0
	for _, n := range h.WeekdayCounts {
		if n > 0 {
			covered++
		}
	}
	return covered
}

// SummarizeHistory aggregates valid observations per country, sorted by
// country name. Invalid rows are ignored here; the learner reports them.
func SummarizeHistory(actuals []pattern.DailyActual) []CountryHistory {
	type acc struct {
		hist  CountryHistory
		dates map[string]bool
	}

	byCountry := make(map[string]*acc)
	for _, a := range actuals {
		if !a.IsValid() {
			continue
		}
		c := byCountry[a.Country]
		if c == nil {
			c = &acc{
				hist:  CountryHistory{Country: a.Country, FirstDate: a.Date, LastDate: a.Date},
				dates: make(map[string]bool),
			}
			byCountry[a.Country] = c
		}
		if a.Date.Before(c.hist.FirstDate) {
			c.hist.FirstDate = a.Date
		}
		if a.Date.After(c.hist.LastDate) {
			c.hist.LastDate = a.Date
		}
		key := a.Date.Format("2006-01-02")
		if !c.dates[key] {
			c.dates[key] = true
			c.hist.DistinctDates++
			c.hist.WeekdayCounts[a.Date.Weekday()]++
		}
		c.hist.Total += a.Value
	}

	summaries := make([]CountryHistory, 0, len(byCountry))
	for _, c := range byCountry {
		c.hist.SpanDays = int(c.hist.LastDate.Sub(c.hist.FirstDate).Hours()/24) + 1
		summaries = append(summaries, c.hist)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Country < summaries[j].Country
	})
	return summaries
}

// WriteHistoryCSV writes the per-country history summary.
func WriteHistoryCSV(summaries []CountryHistory, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create history summary: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{"Country", "FirstDate", "LastDate", "DistinctDates", "SpanDays", "WeekdayCoverage", "Total"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, h := range summaries {
		record := []string{
			h.Country,
			h.FirstDate.Format("2006-01-02"),
			h.LastDate.Format("2006-01-02"),
			strconv.Itoa(h.DistinctDates),
			strconv.Itoa(h.SpanDays),
			strconv.Itoa(h.WeekdayCoverage()),
			strconv.FormatFloat(h.Total, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row for %s: %w", h.Country, err)
		}
	}

	return w.Error()
}
