// Package report builds the before/after data quality report and the
// heuristic cleaning suggestions shown in the UI. Both are produced as
// Markdown and rendered to HTML fragments.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"cleanmycsv/adapters/coercer"
	"cleanmycsv/domain/table"
	"cleanmycsv/internal/profiling"
)

// sampleValuesPerColumn bounds the example values quoted per column
const sampleValuesPerColumn = 3

// Shape captures the headline numbers for one side of the comparison
type Shape struct {
	Rows          int `json:"rows"`
	Columns       int `json:"columns"`
	BlankCells    int `json:"blank_cells"`
	DuplicateRows int `json:"duplicate_rows"`
}

// QualityReport compares the dataset before and after cleaning
type QualityReport struct {
	Original Shape                     `json:"original"`
	Cleaned  Shape                     `json:"cleaned"`
	Profiles []profiling.ColumnProfile `json:"profiles"`
	Samples  map[string][]string       `json:"samples"`
}

// Build computes the quality report for an original/cleaned pair
func Build(original, cleaned *table.Dataset) *QualityReport {
	return &QualityReport{
		Original: shapeOf(original),
		Cleaned:  shapeOf(cleaned),
		Profiles: profiling.ProfileDataset(cleaned),
		Samples:  sampleValues(cleaned),
	}
}

func shapeOf(ds *table.Dataset) Shape {
	s := Shape{Rows: ds.RowCount(), Columns: ds.ColumnCount()}
	seen := make(map[string]bool, len(ds.Rows))
	for _, row := range ds.Rows {
		var key strings.Builder
		for _, v := range row {
			if v.IsMissing() || (v.IsText() && strings.TrimSpace(v.AsText()) == "") {
				s.BlankCells++
			}
			key.WriteString(string(v.Kind))
			key.WriteByte(':')
			key.WriteString(v.String())
			key.WriteByte(0x1f)
		}
		k := key.String()
		if seen[k] {
			s.DuplicateRows++
		}
		seen[k] = true
	}
	return s
}

func sampleValues(ds *table.Dataset) map[string][]string {
	samples := make(map[string][]string, len(ds.Columns))
	for i, name := range ds.Columns {
		vals := make([]string, 0, sampleValuesPerColumn)
		for _, row := range ds.Rows {
			if len(vals) == sampleValuesPerColumn {
				break
			}
			if row[i].IsMissing() {
				continue
			}
			if s := row[i].String(); s != "" {
				vals = append(vals, s)
			}
		}
		samples[name] = vals
	}
	return samples
}

// Markdown renders the report for the UI
func (r *QualityReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Original**: %d rows × %d cols | Blank cells: %d | Duplicates: %d\n\n",
		r.Original.Rows, r.Original.Columns, r.Original.BlankCells, r.Original.DuplicateRows)
	fmt.Fprintf(&b, "**Cleaned**: %d rows × %d cols | Blank cells: %d | Duplicates: %d\n\n",
		r.Cleaned.Rows, r.Cleaned.Columns, r.Cleaned.BlankCells, r.Cleaned.DuplicateRows)

	b.WriteString("**Column types (cleaned)**\n\n")
	for _, p := range r.Profiles {
		fmt.Fprintf(&b, "- `%s`: %s (%.0f%% missing, %d unique)", p.Name, p.Kind, p.MissingRate*100, p.UniqueCount)
		if p.Summary != nil {
			fmt.Fprintf(&b, " — mean %.4g, median %.4g, range [%.4g, %.4g]",
				p.Summary.Mean, p.Summary.Median, p.Summary.Min, p.Summary.Max)
			if p.Summary.OutlierCount > 0 {
				fmt.Fprintf(&b, ", %d outliers", p.Summary.OutlierCount)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n**Sample values per column (cleaned)**\n\n")
	for _, p := range r.Profiles {
		vals := r.Samples[p.Name]
		quoted := make([]string, len(vals))
		for i, v := range vals {
			quoted[i] = "`" + v + "`"
		}
		fmt.Fprintf(&b, "- `%s`: %s\n", p.Name, strings.Join(quoted, ", "))
	}
	return b.String()
}

// Suggestions produces heuristic cleaning hints from the original dataset:
// duplicates, missingness, edge whitespace, and comma-formatted numbers.
func Suggestions(ds *table.Dataset) []string {
	issues := make([]string, 0, 4)

	shape := shapeOf(ds)
	if shape.DuplicateRows > 0 {
		issues = append(issues, fmt.Sprintf("There are %d duplicate rows in the original dataset.", shape.DuplicateRows))
	}
	if shape.BlankCells > 0 {
		issues = append(issues, "There are missing values in one or more columns.")
	}

	for i, name := range ds.Columns {
		edgeSpace := false
		commaCount := 0
		nonBlank := 0
		for _, row := range ds.Rows {
			v := row[i]
			if !v.IsText() {
				continue
			}
			s := v.AsText()
			if strings.TrimSpace(s) == "" {
				continue
			}
			nonBlank++
			if s != strings.TrimSpace(s) {
				edgeSpace = true
			}
			if strings.Contains(s, ",") {
				if _, ok := coercer.ParseNumber(s); ok {
					commaCount++
				}
			}
		}
		if edgeSpace {
			issues = append(issues, fmt.Sprintf("Column '%s' may contain leading/trailing spaces.", name))
		}
		if nonBlank > 0 && float64(commaCount)/float64(nonBlank) > 0.2 {
			issues = append(issues, fmt.Sprintf("Column '%s' may contain numeric values with commas.", name))
		}
	}

	if len(issues) == 0 {
		issues = append(issues, "No major issues found. Consider standardizing column names and checking column types.")
	}
	return issues
}

// SuggestionsMarkdown renders the suggestions as a bullet list
func SuggestionsMarkdown(ds *table.Dataset) string {
	var b strings.Builder
	b.WriteString("### Cleaning suggestions\n\n")
	for _, issue := range Suggestions(ds) {
		b.WriteString("- " + issue + "\n")
	}
	return b.String()
}

// RenderHTML converts report Markdown into an HTML fragment for the UI
func RenderHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}
