// Package dataprocessing parses the pipeline's CSV inputs and summarizes the
// historical window. Structural problems (missing columns, unparseable dates
// or numbers) are fatal and name the offending row; blank values are gaps and
// are skipped with a diagnostic.
package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"toplinecli/internal/diagnostics"
	"toplinecli/internal/pattern"
)

// dateFormats lists the accepted date layouts, tried in order.
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
}

// ParseActuals reads the historical daily actuals CSV. Required columns are
// date, country and value (revenue and amount are accepted aliases). Rows
// with a blank value are recorded as gaps, not errors.
func ParseActuals(path string, diags *diagnostics.Collector) ([]pattern.DailyActual, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open actuals file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read actuals header: %w", err)
	}

	dateCol, err := columnIndex(header, "date")
	if err != nil {
		return nil, err
	}
	countryCol, err := columnIndex(header, "country")
	if err != nil {
		return nil, err
	}
	valueCol, err := columnIndex(header, "value", "revenue", "amount")
	if err != nil {
		return nil, err
	}

	var actuals []pattern.DailyActual
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
		row++

		country := strings.TrimSpace(record[countryCol])
		if country == "" {
			return nil, fmt.Errorf("row %d: empty country", row)
		}

		date, err := parseDate(record[dateCol])
		if err != nil {
			return nil, fmt.Errorf("row %d: field date: %w", row, err)
		}

		raw := strings.TrimSpace(record[valueCol])
		if raw == "" {
			if diags != nil {
				diags.RowWarnf(diagnostics.CodeSkippedRow, country, row,
					"blank value on %s, treated as a gap", date.Format("2006-01-02"))
			}
			continue
		}

		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: field value: parse %q: %w", row, raw, err)
		}

		actuals = append(actuals, pattern.DailyActual{
			Date:    date,
			Country: country,
			Value:   value,
		})
	}

	return actuals, nil
}

// parseDate tries the accepted layouts in order.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// columnIndex finds a header column by name, case-insensitively, accepting
// any of the given aliases.
func columnIndex(header []string, names ...string) (int, error) {
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(col))
		for _, name := range names {
			if col == name {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("missing required column %q", names[0])
}
