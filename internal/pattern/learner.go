package pattern

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"toplinecli/internal/calendar"
	"toplinecli/internal/diagnostics"
)

// Learner estimates per-country calendar patterns from historical daily
// actuals. Learning is deterministic: identical input always yields an
// identical model.
type Learner struct {
	cfg      Config
	holidays calendar.HolidaySource
	logger   *slog.Logger
	diags    *diagnostics.Collector
}

// NewLearner creates a learner with the specified parameters. A nil holiday
// source disables the holiday index family (all offsets stay 1.0).
func NewLearner(cfg Config, holidays calendar.HolidaySource, logger *slog.Logger, diags *diagnostics.Collector) *Learner {
	if logger == nil {
		logger = slog.Default()
	}
	if diags == nil {
		diags = diagnostics.NewCollector(logger)
	}
	if holidays == nil {
		holidays = calendar.NoHolidays{}
	}
	return &Learner{
		cfg:      cfg,
		holidays: holidays,
		logger:   logger,
		diags:    diags,
	}
}

// Learn builds a pattern model from the full historical window. Countries
// with insufficient or no valid history are skipped with a diagnostic, never
// a fatal error.
func (l *Learner) Learn(ctx context.Context, actuals []DailyActual) (*Model, error) {
	start := time.Now()

	if !l.cfg.IsValid() {
		return nil, fmt.Errorf("invalid learner configuration")
	}

	l.logger.InfoContext(ctx, "starting pattern learning",
		"observations", len(actuals),
		"min_observations", l.cfg.MinObservations,
		"outlier_threshold", l.cfg.OutlierThreshold,
		"holiday_window", l.cfg.HolidayWindow,
	)

	byCountry := groupByCountry(actuals)

	// Sorted iteration keeps diagnostics and logs deterministic.
	countries := make([]string, 0, len(byCountry))
	for country := range byCountry {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	model := &Model{
		LearnedAt:     time.Now().UTC(),
		HolidayWindow: l.cfg.HolidayWindow,
		Buckets:       l.cfg.Buckets,
		Countries:     make(map[string]*CountryPattern),
	}

	for _, country := range countries {
		obs := byCountry[country]

		if len(obs) < l.cfg.MinObservations {
			l.diags.Warnf(diagnostics.CodeInsufficientHistory, country,
				"skipped: %d distinct dates, need at least %d", len(obs), l.cfg.MinObservations)
			continue
		}

		p := l.learnCountry(country, obs)
		if p == nil {
			l.diags.Warnf(diagnostics.CodeNoValidObservations, country,
				"skipped: no valid non-outlier observations")
			continue
		}

		model.Countries[country] = p
		l.logger.DebugContext(ctx, "learned country pattern",
			"country", country,
			"observations", p.Observations,
			"outliers", len(p.OutlierDates),
			"base_level", p.BaseLevel,
		)
	}

	l.logger.InfoContext(ctx, "pattern learning completed",
		"duration", time.Since(start),
		"countries_in", len(byCountry),
		"countries_modeled", len(model.Countries),
		"diagnostics", l.diags.Len(),
	)

	return model, nil
}

// learnCountry estimates one country's pattern. Returns nil when nothing
// usable remains after outlier exclusion.
func (l *Learner) learnCountry(country string, obs []DailyActual) *CountryPattern {
	// Degenerate variance: indices default to 1.0, no outlier flags.
	if isDegenerate(values(obs)) {
		l.diags.Infof(diagnostics.CodeDegenerateVariance, country,
			"all historical values identical, indices default to 1.0")
		return flatPattern(obs, l.cfg)
	}

	outliers := detectOutliers(obs, l.cfg.OutlierThreshold, country, l.holidays, l.cfg.HolidayWindow)

	clean := make([]DailyActual, 0, len(obs))
	outlierDates := make([]string, 0, len(outliers))
	for _, a := range obs {
		key := a.Date.Format("2006-01-02")
		if outliers[key] {
			outlierDates = append(outlierDates, key)
			continue
		}
		clean = append(clean, a)
	}
	sort.Strings(outlierDates)

	if len(clean) == 0 {
		return nil
	}

	dow, _, missing := estimateDowIndex(clean)
	for _, wd := range missing {
		l.diags.Warnf(diagnostics.CodeMissingWeekday, country,
			"no observations for %s, index falls back to 1.0", wd)
	}

	dom := estimateDomBucketIndex(clean, dow, l.cfg.Buckets)
	month := estimateMonthIndex(clean, dow, dom, l.cfg.Buckets)
	base := trimmedMean(values(clean), l.cfg.TrimFraction)
	holiday := estimateHolidayIndex(clean, country, l.holidays, l.cfg.HolidayWindow,
		dow, dom, month, l.cfg.Buckets, base)

	return &CountryPattern{
		DowIndex:        dow,
		DomBucketIndex:  dom,
		MonthIndex:      month,
		HolidayIndex:    holiday,
		BaseLevel:       base,
		OutlierDates:    outlierDates,
		Observations:    len(clean),
		MissingWeekdays: missing,
	}
}

// flatPattern builds the all-ones pattern used for degenerate history.
func flatPattern(obs []DailyActual, cfg Config) *CountryPattern {
	p := &CountryPattern{
		BaseLevel:          mean(values(obs)),
		Observations:       len(obs),
		OutlierDates:       []string{},
		DegenerateVariance: true,
		DomBucketIndex:     make(map[calendar.Bucket]float64, 3),
		HolidayIndex:       make(map[int]float64, 2*cfg.HolidayWindow+1),
	}
	for wd := 0; wd < 7; wd++ {
		p.DowIndex[wd] = 1.0
	}
	for _, b := range calendar.Buckets() {
		p.DomBucketIndex[b] = 1.0
	}
	for m := 1; m <= 12; m++ {
		p.MonthIndex[m] = 1.0
	}
	for off := -cfg.HolidayWindow; off <= cfg.HolidayWindow; off++ {
		p.HolidayIndex[off] = 1.0
	}
	return p
}

// groupByCountry groups valid observations by country, dropping zero and
// missing values, de-duplicating dates (last row wins) and sorting by date.
func groupByCountry(actuals []DailyActual) map[string][]DailyActual {
	byDate := make(map[string]map[string]DailyActual)
	for _, a := range actuals {
		if !a.IsValid() {
			continue
		}
		if byDate[a.Country] == nil {
			byDate[a.Country] = make(map[string]DailyActual)
		}
		byDate[a.Country][a.Date.Format("2006-01-02")] = a
	}

	grouped := make(map[string][]DailyActual, len(byDate))
	for country, dates := range byDate {
		obs := make([]DailyActual, 0, len(dates))
		for _, a := range dates {
			obs = append(obs, a)
		}
		sort.Slice(obs, func(i, j int) bool {
			return obs[i].Date.Before(obs[j].Date)
		})
		grouped[country] = obs
	}
	return grouped
}
