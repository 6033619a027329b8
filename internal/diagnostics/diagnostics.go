// Package diagnostics records the non-fatal data-quality conditions the
// pipeline degrades through: insufficient history, unmatched countries,
// missing weekday coverage, fallbacks. Every skipped row or default applied
// must leave a diagnostic here so nothing is silently truncated.
package diagnostics

import (
	"fmt"
	"log/slog"
)

// Severity classifies how a diagnostic should be surfaced.
type Severity string

const (
	// SeverityInfo marks expected degradations (fallback applied, default used).
	SeverityInfo Severity = "INFO"
	// SeverityWarning marks skipped inputs the operator should review.
	SeverityWarning Severity = "WARNING"
)

// Code identifies the diagnostic condition.
type Code string

const (
	CodeInsufficientHistory  Code = "INSUFFICIENT_HISTORY"
	CodeNoValidObservations  Code = "NO_VALID_OBSERVATIONS"
	CodeUnmatchedCountry     Code = "UNMATCHED_COUNTRY"
	CodeMissingWeekday       Code = "MISSING_WEEKDAY"
	CodeDegenerateVariance   Code = "DEGENERATE_VARIANCE"
	CodeUniformFallback      Code = "UNIFORM_FALLBACK"
	CodeZeroWeightSum        Code = "ZERO_WEIGHT_SUM"
	CodeSkippedRow           Code = "SKIPPED_ROW"
)

// Diagnostic is a single recorded condition. Row is 1-based and zero when the
// condition is not tied to an input row.
type Diagnostic struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Country  string   `json:"country,omitempty"`
	Row      int      `json:"row,omitempty"`
	Message  string   `json:"message"`
}

// String formats the diagnostic for the text report.
func (d Diagnostic) String() string {
	switch {
	case d.Country != "" && d.Row > 0:
		return fmt.Sprintf("[%s] %s country=%s row=%d: %s", d.Severity, d.Code, d.Country, d.Row, d.Message)
	case d.Country != "":
		return fmt.Sprintf("[%s] %s country=%s: %s", d.Severity, d.Code, d.Country, d.Message)
	default:
		return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
	}
}

// Collector accumulates diagnostics for a single run and mirrors them to the
// structured log. The pipeline is single-threaded, so no locking.
type Collector struct {
	logger *slog.Logger
	items  []Diagnostic
}

// NewCollector creates a collector logging through the given logger.
func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{logger: logger}
}

// Add records a fully-formed diagnostic.
func (c *Collector) Add(d Diagnostic) {
	c.items = append(c.items, d)

	attrs := []any{
		slog.String("code", string(d.Code)),
	}
	if d.Country != "" {
		attrs = append(attrs, slog.String("country", d.Country))
	}
	if d.Row > 0 {
		attrs = append(attrs, slog.Int("row", d.Row))
	}

	switch d.Severity {
	case SeverityWarning:
		c.logger.Warn(d.Message, attrs...)
	default:
		c.logger.Info(d.Message, attrs...)
	}
}

// Warnf records a warning-severity diagnostic for a country.
func (c *Collector) Warnf(code Code, country string, format string, args ...any) {
	c.Add(Diagnostic{
		Code:     code,
		Severity: SeverityWarning,
		Country:  country,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Infof records an info-severity diagnostic for a country.
func (c *Collector) Infof(code Code, country string, format string, args ...any) {
	c.Add(Diagnostic{
		Code:     code,
		Severity: SeverityInfo,
		Country:  country,
		Message:  fmt.Sprintf(format, args...),
	})
}

// RowWarnf records a warning tied to a specific input row.
func (c *Collector) RowWarnf(code Code, country string, row int, format string, args ...any) {
	c.Add(Diagnostic{
		Code:     code,
		Severity: SeverityWarning,
		Country:  country,
		Row:      row,
		Message:  fmt.Sprintf(format, args...),
	})
}

// All returns the recorded diagnostics in order.
func (c *Collector) All() []Diagnostic {
	return c.items
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int {
	return len(c.items)
}

// CountByCode tallies diagnostics per code for the validation summary.
func (c *Collector) CountByCode() map[Code]int {
	counts := make(map[Code]int)
	for _, d := range c.items {
		counts[d.Code]++
	}
	return counts
}
