// Package coercer implements deterministic text-to-type coercion for whole
// columns. A column is rewritten only when a high enough fraction of its
// non-blank cells parses; individual failures degrade to the missing marker
// rather than aborting anything.
package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"cleanmycsv/domain/table"
)

// Coercer holds the coercion thresholds
type Coercer struct {
	config Config
}

// Config defines the coercion thresholds
type Config struct {
	NumericThreshold float64 `json:"numeric_threshold"` // fraction of non-blank cells that must parse as numbers
	DateThreshold    float64 `json:"date_threshold"`    // fraction of non-blank cells that must parse as dates
}

// DefaultConfig returns the documented policy defaults
func DefaultConfig() Config {
	return Config{
		NumericThreshold: 0.9,
		DateThreshold:    0.9,
	}
}

// New creates a coercer with the given config
func New(config Config) *Coercer {
	return &Coercer{config: config}
}

// dateLayouts covers ISO dates and timestamps plus the common slash and
// day-month-name forms. Both month-first and day-first slash layouts are
// tried, month-first first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// Analysis describes how a column's non-blank cells respond to parsing
type Analysis struct {
	NonBlank     int     `json:"non_blank"`
	NumericCount int     `json:"numeric_count"`
	DateCount    int     `json:"date_count"`
	NumericRatio float64 `json:"numeric_ratio"`
	DateRatio    float64 `json:"date_ratio"`
}

// AnalyzeColumn counts how many non-blank cells of a column parse as
// numeric and as temporal. Cells already typed count as parsed for their
// own kind, which keeps repeated coercion a no-op.
func (c *Coercer) AnalyzeColumn(cells []table.Value) Analysis {
	var a Analysis
	for _, v := range cells {
		switch {
		case v.IsMissing():
			continue
		case v.IsNumber():
			a.NonBlank++
			a.NumericCount++
		case v.IsTime():
			a.NonBlank++
			a.DateCount++
		default:
			s := strings.TrimSpace(v.AsText())
			if s == "" {
				continue
			}
			a.NonBlank++
			if _, ok := ParseNumber(s); ok {
				a.NumericCount++
			}
			if _, ok := ParseDate(s); ok {
				a.DateCount++
			}
		}
	}
	if a.NonBlank > 0 {
		a.NumericRatio = float64(a.NumericCount) / float64(a.NonBlank)
		a.DateRatio = float64(a.DateCount) / float64(a.NonBlank)
	}
	return a
}

// ShouldCoerceNumeric reports whether the column clears the numeric threshold
func (c *Coercer) ShouldCoerceNumeric(a Analysis) bool {
	return a.NonBlank > 0 && a.NumericRatio >= c.config.NumericThreshold
}

// ShouldCoerceDate reports whether the column clears the date threshold
func (c *Coercer) ShouldCoerceDate(a Analysis) bool {
	return a.NonBlank > 0 && a.DateRatio >= c.config.DateThreshold
}

// CoerceNumeric rewrites a single cell to numeric. Blank and unparseable
// cells become the missing marker; already-numeric cells pass through.
func (c *Coercer) CoerceNumeric(v table.Value) table.Value {
	if v.IsNumber() {
		return v
	}
	if v.IsMissing() {
		return v
	}
	s := strings.TrimSpace(v.AsText())
	if s == "" {
		return table.Missing()
	}
	if n, ok := ParseNumber(s); ok {
		return table.Number(n)
	}
	return table.Missing()
}

// CoerceDate rewrites a single cell to temporal. Blank and unparseable
// cells become the missing marker; already-temporal cells pass through.
func (c *Coercer) CoerceDate(v table.Value) table.Value {
	if v.IsTime() {
		return v
	}
	if v.IsMissing() {
		return v
	}
	s := strings.TrimSpace(v.AsText())
	if s == "" {
		return table.Missing()
	}
	if t, ok := ParseDate(s); ok {
		return table.Time(t)
	}
	return table.Missing()
}

// ParseNumber attempts to parse text as a number. Thousands-separator
// commas are removed, and a few messy-spreadsheet forms are tolerated:
// currency symbols, percent signs, and parentheses for negatives.
func ParseNumber(s string) (float64, bool) {
	cleanVal := strings.TrimSpace(s)
	if cleanVal == "" {
		return 0, false
	}

	// Parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "%"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}

	// Commas are thousands separators
	cleanVal = strings.ReplaceAll(cleanVal, ",", "")
	cleanVal = strings.TrimSpace(cleanVal)

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// ParseDate attempts to parse text against the known date layouts
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
