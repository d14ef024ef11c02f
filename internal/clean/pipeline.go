// Package clean applies the fixed, ordered cleaning pipeline to a Dataset:
// column-name normalization, empty row/column removal, text trimming,
// duplicate removal, then threshold-gated numeric and (optionally) date
// coercion. Every step is total and idempotent; a column that fails a
// coercion threshold simply stays text.
package clean

import (
	"fmt"
	"regexp"
	"strings"

	"cleanmycsv/adapters/coercer"
	"cleanmycsv/domain/table"
)

// Options control the policy knobs of the pipeline. The step order and the
// step set are fixed.
type Options struct {
	ParseDates       bool    `json:"parse_dates"`       // step 7 gate, off by default
	NumericThreshold float64 `json:"numeric_threshold"` // default 0.9
	DateThreshold    float64 `json:"date_threshold"`    // default 0.9
}

// DefaultOptions returns the documented policy defaults
func DefaultOptions() Options {
	return Options{
		ParseDates:       false,
		NumericThreshold: 0.9,
		DateThreshold:    0.9,
	}
}

// Change records one pipeline step's effect for the UI summary
type Change struct {
	Step   string `json:"step"`
	Detail string `json:"detail"`
}

// Result carries the cleaned dataset and the change log
type Result struct {
	Dataset *table.Dataset `json:"dataset"`
	Changes []Change       `json:"changes"`
}

// Pipeline runs the fixed cleaning sequence
type Pipeline struct {
	opts    Options
	coercer *coercer.Coercer
}

// NewPipeline creates a pipeline with the given options
func NewPipeline(opts Options) *Pipeline {
	if opts.NumericThreshold <= 0 {
		opts.NumericThreshold = DefaultOptions().NumericThreshold
	}
	if opts.DateThreshold <= 0 {
		opts.DateThreshold = DefaultOptions().DateThreshold
	}
	return &Pipeline{
		opts: opts,
		coercer: coercer.New(coercer.Config{
			NumericThreshold: opts.NumericThreshold,
			DateThreshold:    opts.DateThreshold,
		}),
	}
}

// Run cleans a copy of ds and returns it with the change log. The input
// dataset is never mutated.
func (p *Pipeline) Run(ds *table.Dataset) *Result {
	out := ds.Clone()
	changes := make([]Change, 0, 8)

	changes = append(changes, p.normalizeColumns(out))
	changes = append(changes, p.dropEmptyRows(out))
	changes = append(changes, p.dropEmptyColumns(out))
	changes = append(changes, p.trimText(out))
	changes = append(changes, p.dropDuplicateRows(out))
	changes = append(changes, p.coerceNumericColumns(out))
	if p.opts.ParseDates {
		changes = append(changes, p.parseDateColumns(out))
	}

	return &Result{Dataset: out, Changes: changes}
}

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeColumnName lowercases a header, collapses runs of whitespace and
// other non-alphanumerics to a single underscore, and strips edge
// underscores. The result may be empty; the pipeline substitutes a
// positional placeholder in that case.
func NormalizeColumnName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = nonAlnumRun.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// normalizeColumns applies NormalizeColumnName to every header, fills empty
// results with column_<index>, and resolves collisions left to right with
// numeric suffixes. The first occurrence keeps the base name.
func (p *Pipeline) normalizeColumns(ds *table.Dataset) Change {
	used := make(map[string]bool, len(ds.Columns))
	renamed := 0
	for i, name := range ds.Columns {
		candidate := NormalizeColumnName(name)
		if candidate == "" {
			candidate = fmt.Sprintf("column_%d", i+1)
		}
		if used[candidate] {
			n := 2
			for used[fmt.Sprintf("%s_%d", candidate, n)] {
				n++
			}
			candidate = fmt.Sprintf("%s_%d", candidate, n)
		}
		used[candidate] = true
		if candidate != ds.Columns[i] {
			renamed++
		}
		ds.Columns[i] = candidate
	}
	return Change{Step: "normalize_columns", Detail: fmt.Sprintf("renamed %d of %d columns", renamed, len(ds.Columns))}
}

// isBlank treats missing cells and whitespace-only text as empty
func isBlank(v table.Value) bool {
	if v.IsMissing() {
		return true
	}
	return v.IsText() && strings.TrimSpace(v.AsText()) == ""
}

func (p *Pipeline) dropEmptyRows(ds *table.Dataset) Change {
	kept := ds.Rows[:0]
	dropped := 0
	for _, row := range ds.Rows {
		empty := true
		for _, v := range row {
			if !isBlank(v) {
				empty = false
				break
			}
		}
		if empty {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	ds.Rows = kept
	return Change{Step: "drop_empty_rows", Detail: fmt.Sprintf("removed %d fully empty rows", dropped)}
}

func (p *Pipeline) dropEmptyColumns(ds *table.Dataset) Change {
	keep := make([]bool, len(ds.Columns))
	kept := 0
	for i := range ds.Columns {
		for _, row := range ds.Rows {
			if !isBlank(row[i]) {
				keep[i] = true
				break
			}
		}
		// A column with no rows at all has nothing to judge by, keep it
		if len(ds.Rows) == 0 {
			keep[i] = true
		}
		if keep[i] {
			kept++
		}
	}
	dropped := len(ds.Columns) - kept

	if dropped > 0 {
		cols := make([]string, 0, kept)
		for i, name := range ds.Columns {
			if keep[i] {
				cols = append(cols, name)
			}
		}
		for r, row := range ds.Rows {
			next := make([]table.Value, 0, kept)
			for i, v := range row {
				if keep[i] {
					next = append(next, v)
				}
			}
			ds.Rows[r] = next
		}
		ds.Columns = cols
	}
	return Change{Step: "drop_empty_columns", Detail: fmt.Sprintf("removed %d fully empty columns", dropped)}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func (p *Pipeline) trimText(ds *table.Dataset) Change {
	touched := 0
	for _, row := range ds.Rows {
		for i, v := range row {
			if !v.IsText() {
				continue
			}
			s := v.AsText()
			trimmed := whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
			if trimmed != s {
				row[i] = table.Text(trimmed)
				touched++
			}
		}
	}
	return Change{Step: "trim_text", Detail: fmt.Sprintf("trimmed %d cells", touched)}
}

// rowKey builds an exact-equality fingerprint of a row: kind tag plus
// serialized payload per cell, unit-separator delimited
func rowKey(row []table.Value) string {
	var b strings.Builder
	for _, v := range row {
		b.WriteString(string(v.Kind))
		b.WriteByte(':')
		b.WriteString(v.String())
		b.WriteByte(0x1f)
	}
	return b.String()
}

func (p *Pipeline) dropDuplicateRows(ds *table.Dataset) Change {
	seen := make(map[string]bool, len(ds.Rows))
	kept := ds.Rows[:0]
	dropped := 0
	for _, row := range ds.Rows {
		key := rowKey(row)
		if seen[key] {
			dropped++
			continue
		}
		seen[key] = true
		kept = append(kept, row)
	}
	ds.Rows = kept
	return Change{Step: "drop_duplicate_rows", Detail: fmt.Sprintf("removed %d duplicate rows", dropped)}
}

func (p *Pipeline) coerceNumericColumns(ds *table.Dataset) Change {
	coerced := 0
	for i := range ds.Columns {
		cells := ds.Column(i)
		analysis := p.coercer.AnalyzeColumn(cells)
		if !p.coercer.ShouldCoerceNumeric(analysis) {
			continue
		}
		for r, v := range cells {
			cells[r] = p.coercer.CoerceNumeric(v)
		}
		ds.SetColumn(i, cells)
		coerced++
	}
	return Change{Step: "coerce_numeric", Detail: fmt.Sprintf("converted %d columns to numeric", coerced)}
}

// isTextColumn reports whether every non-missing cell is still text, i.e.
// the column was not claimed by an earlier coercion
func isTextColumn(cells []table.Value) bool {
	hasText := false
	for _, v := range cells {
		if v.IsMissing() {
			continue
		}
		if !v.IsText() {
			return false
		}
		hasText = true
	}
	return hasText
}

func (p *Pipeline) parseDateColumns(ds *table.Dataset) Change {
	coerced := 0
	for i := range ds.Columns {
		cells := ds.Column(i)
		if !isTextColumn(cells) {
			continue
		}
		analysis := p.coercer.AnalyzeColumn(cells)
		if !p.coercer.ShouldCoerceDate(analysis) {
			continue
		}
		for r, v := range cells {
			cells[r] = p.coercer.CoerceDate(v)
		}
		ds.SetColumn(i, cells)
		coerced++
	}
	return Change{Step: "parse_dates", Detail: fmt.Sprintf("converted %d columns to dates", coerced)}
}
