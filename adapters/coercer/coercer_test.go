package coercer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanmycsv/domain/table"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"plain integer", "1000", 1000, true},
		{"thousands separator", "1,000", 1000, true},
		{"multiple separators", "1,234,567", 1234567, true},
		{"decimal", "12.5", 12.5, true},
		{"currency", "$45000", 45000, true},
		{"currency with separator", "€1,250.75", 1250.75, true},
		{"percent", "85%", 85, true},
		{"parenthesised negative", "(123)", -123, true},
		{"scientific notation", "1e3", 1000, true},
		{"surrounding space", "  42  ", 42, true},
		{"text", "abc", 0, false},
		{"slash date", "12/01/2023", 0, false},
		{"empty", "", 0, false},
		{"blank", "   ", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"iso date", "2023-01-12", time.Date(2023, 1, 12, 0, 0, 0, 0, time.UTC), true},
		{"month first slash", "12/01/2023", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), true},
		{"day first slash", "13/01/2023", time.Date(2023, 1, 13, 0, 0, 0, 0, time.UTC), true},
		{"iso timestamp", "2023-01-12 08:30:00", time.Date(2023, 1, 12, 8, 30, 0, 0, time.UTC), true},
		{"day month name", "02-Jan-2006", time.Date(2006, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"not a date", "not a date", time.Time{}, false},
		{"number", "1000", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAnalyzeColumn(t *testing.T) {
	c := New(DefaultConfig())

	t.Run("mostly numeric", func(t *testing.T) {
		cells := []table.Value{
			table.Text("1,000"),
			table.Text("1000"),
			table.Text("2,000"),
			table.Text(""), // blank cells are excluded from the ratio
		}
		a := c.AnalyzeColumn(cells)
		require.Equal(t, 3, a.NonBlank)
		assert.Equal(t, 3, a.NumericCount)
		assert.InDelta(t, 1.0, a.NumericRatio, 1e-9)
		assert.True(t, c.ShouldCoerceNumeric(a))
	})

	t.Run("two thirds dates stay below threshold", func(t *testing.T) {
		cells := []table.Value{
			table.Text("12/01/2023"),
			table.Text("13/01/2023"),
			table.Text("not a date"),
		}
		a := c.AnalyzeColumn(cells)
		require.Equal(t, 3, a.NonBlank)
		assert.Equal(t, 2, a.DateCount)
		assert.InDelta(t, 2.0/3.0, a.DateRatio, 1e-9)
		assert.False(t, c.ShouldCoerceDate(a))
	})

	t.Run("typed cells count as parsed for their kind", func(t *testing.T) {
		cells := []table.Value{
			table.Number(1),
			table.Number(2),
			table.Missing(),
		}
		a := c.AnalyzeColumn(cells)
		assert.Equal(t, 2, a.NonBlank)
		assert.InDelta(t, 1.0, a.NumericRatio, 1e-9)
	})

	t.Run("all blank column never coerces", func(t *testing.T) {
		cells := []table.Value{table.Text(""), table.Text("  ")}
		a := c.AnalyzeColumn(cells)
		assert.Equal(t, 0, a.NonBlank)
		assert.False(t, c.ShouldCoerceNumeric(a))
		assert.False(t, c.ShouldCoerceDate(a))
	})
}

func TestCoerceNumericCell(t *testing.T) {
	c := New(DefaultConfig())

	assert.Equal(t, table.Number(1000), c.CoerceNumeric(table.Text("1,000")))
	assert.Equal(t, table.Missing(), c.CoerceNumeric(table.Text("abc")))
	assert.Equal(t, table.Missing(), c.CoerceNumeric(table.Text("  ")))

	// Already coerced cells pass through unchanged
	assert.Equal(t, table.Number(7), c.CoerceNumeric(table.Number(7)))
	assert.Equal(t, table.Missing(), c.CoerceNumeric(table.Missing()))
}

func TestCoerceDateCell(t *testing.T) {
	c := New(DefaultConfig())

	got := c.CoerceDate(table.Text("2023-01-12"))
	require.True(t, got.IsTime())
	assert.Equal(t, time.Date(2023, 1, 12, 0, 0, 0, 0, time.UTC), got.AsTime())

	assert.Equal(t, table.Missing(), c.CoerceDate(table.Text("nope")))

	ts := table.Time(time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, ts, c.CoerceDate(ts))
}
