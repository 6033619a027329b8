package calendar

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// HolidayInfo describes a recognized holiday for a country.
type HolidayInfo struct {
	Date time.Time
	Name string
}

// HolidaySource answers whether a (country, date) pair is a recognized
// holiday. The forecasting core treats it as a black box so calendars can be
// sourced from files, services, or test fixtures interchangeably.
type HolidaySource interface {
	Lookup(country string, date time.Time) (HolidayInfo, bool)
}

// NoHolidays is a HolidaySource that recognizes nothing. It is the default
// when holiday adjustment is disabled or no calendar file is configured.
type NoHolidays struct{}

// Lookup always reports no holiday.
func (NoHolidays) Lookup(string, time.Time) (HolidayInfo, bool) {
	return HolidayInfo{}, false
}

// StaticSource is a HolidaySource backed by an in-memory calendar keyed by
// country and date.
type StaticSource struct {
	byCountry map[string]map[string]HolidayInfo
}

// NewStaticSource builds a StaticSource from explicit holiday lists.
func NewStaticSource(holidays map[string][]HolidayInfo) *StaticSource {
	s := &StaticSource{byCountry: make(map[string]map[string]HolidayInfo)}
	for country, list := range holidays {
		m := make(map[string]HolidayInfo, len(list))
		for _, h := range list {
			m[dateKey(h.Date)] = h
		}
		s.byCountry[country] = m
	}
	return s
}

// Lookup reports whether the date is a recognized holiday for the country.
// Country matching is exact and case-sensitive.
func (s *StaticSource) Lookup(country string, date time.Time) (HolidayInfo, bool) {
	days, ok := s.byCountry[country]
	if !ok {
		return HolidayInfo{}, false
	}
	h, ok := days[dateKey(date)]
	return h, ok
}

// Countries returns the countries with at least one holiday, sorted.
func (s *StaticSource) Countries() []string {
	countries := make([]string, 0, len(s.byCountry))
	for c := range s.byCountry {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	return countries
}

// holidayFileEntry is the YAML shape of a single holiday row.
type holidayFileEntry struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
}

// LoadStaticSource reads a YAML holiday calendar keyed by country:
//
//	US:
//	  - date: 2026-01-01
//	    name: New Year's Day
func LoadStaticSource(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday calendar: %w", err)
	}

	var raw map[string][]holidayFileEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse holiday calendar: %w", err)
	}

	holidays := make(map[string][]HolidayInfo, len(raw))
	for country, entries := range raw {
		for i, entry := range entries {
			date, err := time.Parse("2006-01-02", strings.TrimSpace(entry.Date))
			if err != nil {
				return nil, fmt.Errorf("parse holiday date for %s (entry %d): %w", country, i+1, err)
			}
			holidays[country] = append(holidays[country], HolidayInfo{Date: date, Name: entry.Name})
		}
	}

	return NewStaticSource(holidays), nil
}

// HolidayOffset returns the signed day-offset from the nearest recognized
// holiday within +/-window days of date. A date one day before a holiday has
// offset -1, the holiday itself offset 0. When several holidays fall inside
// the window the closest one wins, ties resolving to the upcoming holiday.
func HolidayOffset(src HolidaySource, country string, date time.Time, window int) (int, bool) {
	if src == nil || window < 0 {
		return 0, false
	}

	bestOffset := 0
	found := false
	for delta := -window; delta <= window; delta++ {
		// date is `offset` days after a holiday at date-offset.
		candidate := date.AddDate(0, 0, -delta)
		if _, ok := src.Lookup(country, candidate); !ok {
			continue
		}
		if !found || abs(delta) < abs(bestOffset) {
			bestOffset = delta
			found = true
		}
	}
	return bestOffset, found
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func dateKey(date time.Time) string {
	return date.Format("2006-01-02")
}
