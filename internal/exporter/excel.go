package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"toplinecli/internal/calendar"
	"toplinecli/internal/forecast"
	"toplinecli/internal/pattern"
)

// WriteWorkbook writes the forecast workbook: a Forecasts sheet mirroring the
// CSV plus one Indices sheet per modeled country showing the learned pattern.
func WriteWorkbook(rows []forecast.DailyForecast, model *pattern.Model, path string) error {
	if len(rows) == 0 {
		return fmt.Errorf("no forecast rows to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeForecastSheet(f, rows); err != nil {
		return err
	}
	if model != nil {
		for _, country := range sortedCountries(model) {
			if err := writeIndexSheet(f, country, model.Countries[country]); err != nil {
				return err
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeForecastSheet(f *excelize.File, rows []forecast.DailyForecast) error {
	const sheet = "Forecasts"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	header := []any{"Date", "Country", "Forecast", "Weekday", "Bucket",
		"DowIndex", "DomIndex", "MonthIndex", "HolidayIndex", "HolidayOffset", "UniformFallback"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, row := range rows {
		values := []any{
			row.Date.Format("2006-01-02"),
			row.Country,
			row.Value,
			row.Weekday.String(),
			row.Bucket.String(),
			row.DowIndex,
			row.DomIndex,
			row.MonthIndex,
			row.HolidayIndex,
			row.HolidayOffset,
			row.UniformFallback,
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeIndexSheet(f *excelize.File, country string, p *pattern.CountryPattern) error {
	sheet := "Indices " + country
	if len(sheet) > 31 {
		// Excel sheet name limit.
		sheet = sheet[:31]
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	row := 1
	write := func(values ...any) error {
		err := setRow(f, sheet, row, values)
		row++
		return err
	}

	if err := write("Country", country); err != nil {
		return err
	}
	if err := write("Observations", p.Observations); err != nil {
		return err
	}
	if err := write("BaseLevel", p.BaseLevel); err != nil {
		return err
	}
	if err := write("Outliers", len(p.OutlierDates)); err != nil {
		return err
	}
	if err := write(); err != nil {
		return err
	}

	if err := write("Weekday", "Index"); err != nil {
		return err
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if err := write(wd.String(), p.DowIndex[wd]); err != nil {
			return err
		}
	}
	if err := write(); err != nil {
		return err
	}

	if err := write("Bucket", "Index"); err != nil {
		return err
	}
	for _, b := range calendar.Buckets() {
		if err := write(b.String(), p.DomBucketIndex[b]); err != nil {
			return err
		}
	}
	if err := write(); err != nil {
		return err
	}

	if err := write("Month", "Index"); err != nil {
		return err
	}
	for m := time.January; m <= time.December; m++ {
		if err := write(m.String(), p.MonthIndex[m]); err != nil {
			return err
		}
	}
	if err := write(); err != nil {
		return err
	}

	if len(p.HolidayIndex) > 0 {
		if err := write("HolidayOffset", "Index"); err != nil {
			return err
		}
		for _, off := range sortedOffsets(p) {
			if err := write(off, p.HolidayIndex[off]); err != nil {
				return err
			}
		}
	}

	return nil
}

func sortedCountries(model *pattern.Model) []string {
	names := model.CountryNames()
	sort.Strings(names)
	return names
}

func sortedOffsets(p *pattern.CountryPattern) []int {
	offsets := make([]int, 0, len(p.HolidayIndex))
	for off := range p.HolidayIndex {
		offsets = append(offsets, off)
	}
	sort.Ints(offsets)
	return offsets
}

// setRow writes the values into row n starting at column A.
func setRow(f *excelize.File, sheet string, n int, values []any) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", n, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d on %s: %w", n, sheet, err)
	}
	return nil
}
