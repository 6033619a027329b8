package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"toplinecli/internal/forecast"
)

// ParseTargets reads the monthly targets CSV. Required columns are month
// (YYYY-MM), country and target (value is an accepted alias). Every row is
// validated; a bad row fails the run.
func ParseTargets(path string) ([]forecast.MonthlyTarget, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read targets header: %w", err)
	}

	monthCol, err := columnIndex(header, "month")
	if err != nil {
		return nil, err
	}
	countryCol, err := columnIndex(header, "country")
	if err != nil {
		return nil, err
	}
	targetCol, err := columnIndex(header, "target", "value")
	if err != nil {
		return nil, err
	}

	validate := validator.New()

	var targets []forecast.MonthlyTarget
	seen := make(map[string]int)
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

		month, err := time.Parse("2006-01", strings.TrimSpace(record[monthCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: field month: expected YYYY-MM, got %q", row, record[monthCol])
		}

		raw := strings.TrimSpace(record[targetCol])
		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: field target: parse %q: %w", row, raw, err)
		}

		target := forecast.MonthlyTarget{
			Year:    month.Year(),
			Month:   month.Month(),
			Country: strings.TrimSpace(record[countryCol]),
			Value:   value,
		}
		if err := validate.Struct(target); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		if prev, dup := seen[target.Key()]; dup {
			return nil, fmt.Errorf("row %d: duplicate target for %s (first at row %d)", row, target.Key(), prev)
		}
		seen[target.Key()] = row

		targets = append(targets, target)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("targets file contains no rows")
	}

	return targets, nil
}
