package pattern

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"

	"toplinecli/internal/calendar"
)

// The pattern model travels between the learner and the disaggregator as a
// YAML document keyed by country. This file is the sole contract between the
// two tools and must round-trip losslessly: LoadModel(SaveModel(m)) == m
// within floating-point tolerance.

// modelFile is the serialized form of Model.
type modelFile struct {
	LearnedAt     string                    `yaml:"learned_at"`
	HolidayWindow int                       `yaml:"holiday_window"`
	Buckets       calendar.BucketBoundaries `yaml:"bucket_boundaries"`
	Countries     map[string]countryFile    `yaml:"countries"`
}

// countryFile is the serialized form of CountryPattern. DowIndex is Sunday
// first; MonthIndex carries January..December.
type countryFile struct {
	BaseLevel          float64            `yaml:"base_level"`
	DowIndex           []float64          `yaml:"dow_index"`
	DomBucketIndex     map[string]float64 `yaml:"dom_bucket_index"`
	MonthIndex         []float64          `yaml:"month_index"`
	HolidayIndex       map[int]float64    `yaml:"holiday_index"`
	OutlierDates       []string           `yaml:"outlier_dates,omitempty"`
	Observations       int                `yaml:"observations"`
	DegenerateVariance bool               `yaml:"degenerate_variance,omitempty"`
	MissingWeekdays    []int              `yaml:"missing_weekdays,omitempty"`
}

// SaveModel writes the model as YAML to the given path, creating parent
// directories as needed.
func SaveModel(m *Model, path string) error {
	if m == nil {
		return fmt.Errorf("no model to save")
	}

	out := modelFile{
		LearnedAt:     m.LearnedAt.UTC().Format(time.RFC3339),
		HolidayWindow: m.HolidayWindow,
		Buckets:       m.Buckets,
		Countries:     make(map[string]countryFile, len(m.Countries)),
	}

	for country, p := range m.Countries {
		cf := countryFile{
			BaseLevel:          p.BaseLevel,
			DowIndex:           append([]float64(nil), p.DowIndex[:]...),
			DomBucketIndex:     make(map[string]float64, len(p.DomBucketIndex)),
			MonthIndex:         append([]float64(nil), p.MonthIndex[1:]...),
			HolidayIndex:       make(map[int]float64, len(p.HolidayIndex)),
			OutlierDates:       p.OutlierDates,
			Observations:       p.Observations,
			DegenerateVariance: p.DegenerateVariance,
		}
		for b, v := range p.DomBucketIndex {
			cf.DomBucketIndex[b.String()] = v
		}
		for off, v := range p.HolidayIndex {
			cf.HolidayIndex[off] = v
		}
		for _, wd := range p.MissingWeekdays {
			cf.MissingWeekdays = append(cf.MissingWeekdays, int(wd))
		}
		out.Countries[country] = cf
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create model directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}

	return nil
}

// LoadModel reads a model previously written by SaveModel. The disaggregator
// treats the result as read-only.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}

	var in modelFile
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse model file: %w", err)
	}

	m := &Model{
		HolidayWindow: in.HolidayWindow,
		Buckets:       in.Buckets,
		Countries:     make(map[string]*CountryPattern, len(in.Countries)),
	}
	if in.LearnedAt != "" {
		learnedAt, err := time.Parse(time.RFC3339, in.LearnedAt)
		if err != nil {
			return nil, fmt.Errorf("parse learned_at: %w", err)
		}
		m.LearnedAt = learnedAt
	}

	for country, cf := range in.Countries {
		if len(cf.DowIndex) != 7 {
			return nil, fmt.Errorf("country %s: dow_index must have 7 entries, got %d", country, len(cf.DowIndex))
		}
		if len(cf.MonthIndex) != 12 {
			return nil, fmt.Errorf("country %s: month_index must have 12 entries, got %d", country, len(cf.MonthIndex))
		}

		p := &CountryPattern{
			BaseLevel:          cf.BaseLevel,
			DomBucketIndex:     make(map[calendar.Bucket]float64, len(cf.DomBucketIndex)),
			HolidayIndex:       make(map[int]float64, len(cf.HolidayIndex)),
			OutlierDates:       cf.OutlierDates,
			Observations:       cf.Observations,
			DegenerateVariance: cf.DegenerateVariance,
		}
		copy(p.DowIndex[:], cf.DowIndex)
		copy(p.MonthIndex[1:], cf.MonthIndex)
		for name, v := range cf.DomBucketIndex {
			p.DomBucketIndex[calendar.Bucket(name)] = v
		}
		for off, v := range cf.HolidayIndex {
			p.HolidayIndex[off] = v
		}
		for _, wd := range cf.MissingWeekdays {
			p.MissingWeekdays = append(p.MissingWeekdays, time.Weekday(wd))
		}

		m.Countries[country] = p
	}

	return m, nil
}
