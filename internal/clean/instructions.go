package clean

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"cleanmycsv/adapters/coercer"
	"cleanmycsv/domain/table"
)

// Instructions is a deliberately small command language applied after the
// fixed pipeline. Commands only shrink the dataset or rewrite cells in
// place; anything unrecognized is ignored. Supported forms:
//
//	rename A -> a; B -> b
//	drop columns: X, Y
//	drop rows where COL is null
//	drop rows where COL = VALUE
//	fill nulls in COL with VALUE
//	convert COL to numeric
//	parse COL as date [format LAYOUT]
var (
	renameRe      = regexp.MustCompile(`(?i)rename\s+(.+)`)
	dropColsRe    = regexp.MustCompile(`(?i)drop\s+columns?\s*:\s*(.+)`)
	dropNullRe    = regexp.MustCompile(`(?i)drop\s+rows\s+where\s+(.+?)\s+is\s+null`)
	dropEqRe      = regexp.MustCompile(`(?i)drop\s+rows\s+where\s+(.+?)\s*=\s*(.+)`)
	fillRe        = regexp.MustCompile(`(?i)fill\s+nulls\s+in\s+(.+?)\s+with\s+(.+)`)
	toNumericRe   = regexp.MustCompile(`(?i)convert\s+(.+?)\s+to\s+numeric`)
	parseDateRe   = regexp.MustCompile(`(?i)parse\s+(.+?)\s+as\s+date(?:\s+format\s+(.+))?`)
	itemSplitter  = regexp.MustCompile(`[;,]`)
	arrowSplitter = "->"
)

// ApplyInstructions runs the parsed commands against a copy of ds and
// returns it with a log line per applied command
func ApplyInstructions(ds *table.Dataset, instructions string) (*table.Dataset, []Change) {
	out := ds.Clone()
	changes := make([]Change, 0, 4)

	text := strings.TrimSpace(instructions)
	if text == "" {
		return out, changes
	}

	if m := renameRe.FindStringSubmatch(text); m != nil {
		if c, ok := applyRename(out, m[1]); ok {
			changes = append(changes, c)
		}
	}
	if m := dropColsRe.FindStringSubmatch(text); m != nil {
		if c, ok := applyDropColumns(out, m[1]); ok {
			changes = append(changes, c)
		}
	}
	if m := dropNullRe.FindStringSubmatch(text); m != nil {
		if c, ok := applyDropNullRows(out, strings.TrimSpace(m[1])); ok {
			changes = append(changes, c)
		}
	}
	if m := dropEqRe.FindStringSubmatch(text); m != nil {
		if c, ok := applyDropEqualRows(out, strings.TrimSpace(m[1]), unquote(m[2])); ok {
			changes = append(changes, c)
		}
	}
	if m := fillRe.FindStringSubmatch(text); m != nil {
		if c, ok := applyFillNulls(out, strings.TrimSpace(m[1]), unquote(m[2])); ok {
			changes = append(changes, c)
		}
	}
	if m := toNumericRe.FindStringSubmatch(text); m != nil {
		if c, ok := applyConvertNumeric(out, strings.TrimSpace(m[1])); ok {
			changes = append(changes, c)
		}
	}
	if m := parseDateRe.FindStringSubmatch(text); m != nil {
		layout := ""
		if len(m) > 2 {
			layout = strings.TrimSpace(m[2])
		}
		if c, ok := applyParseDate(out, strings.TrimSpace(m[1]), layout); ok {
			changes = append(changes, c)
		}
	}

	return out, changes
}

func splitItems(s string) []string {
	parts := itemSplitter.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `'"`)
}

func applyRename(ds *table.Dataset, args string) (Change, bool) {
	applied := make([]string, 0, 2)
	for _, pair := range splitItems(args) {
		if !strings.Contains(pair, arrowSplitter) {
			continue
		}
		parts := strings.SplitN(pair, arrowSplitter, 2)
		from, to := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if from == "" || to == "" {
			continue
		}
		if i := ds.ColumnIndex(from); i >= 0 {
			ds.Columns[i] = to
			applied = append(applied, fmt.Sprintf("%s -> %s", from, to))
		}
	}
	if len(applied) == 0 {
		return Change{}, false
	}
	return Change{Step: "rename", Detail: "renamed columns: " + strings.Join(applied, ", ")}, true
}

func applyDropColumns(ds *table.Dataset, args string) (Change, bool) {
	dropped := make([]string, 0, 2)
	for _, name := range splitItems(args) {
		i := ds.ColumnIndex(name)
		if i < 0 {
			continue
		}
		ds.Columns = append(ds.Columns[:i], ds.Columns[i+1:]...)
		for r, row := range ds.Rows {
			ds.Rows[r] = append(row[:i], row[i+1:]...)
		}
		dropped = append(dropped, name)
	}
	if len(dropped) == 0 {
		return Change{}, false
	}
	return Change{Step: "drop_columns", Detail: "dropped columns: " + strings.Join(dropped, ", ")}, true
}

func dropRowsWhere(ds *table.Dataset, match func(table.Value) bool, col int) int {
	kept := ds.Rows[:0]
	dropped := 0
	for _, row := range ds.Rows {
		if match(row[col]) {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	ds.Rows = kept
	return dropped
}

func applyDropNullRows(ds *table.Dataset, col string) (Change, bool) {
	i := ds.ColumnIndex(col)
	if i < 0 {
		return Change{}, false
	}
	dropped := dropRowsWhere(ds, isBlank, i)
	return Change{Step: "drop_null_rows", Detail: fmt.Sprintf("dropped %d rows where %s is null", dropped, col)}, true
}

func applyDropEqualRows(ds *table.Dataset, col, value string) (Change, bool) {
	i := ds.ColumnIndex(col)
	if i < 0 {
		return Change{}, false
	}
	dropped := dropRowsWhere(ds, func(v table.Value) bool {
		return v.String() == value
	}, i)
	return Change{Step: "drop_equal_rows", Detail: fmt.Sprintf("dropped %d rows where %s = %s", dropped, col, value)}, true
}

func applyFillNulls(ds *table.Dataset, col, value string) (Change, bool) {
	i := ds.ColumnIndex(col)
	if i < 0 {
		return Change{}, false
	}
	fill := table.Text(value)
	if n, ok := coercer.ParseNumber(value); ok {
		fill = table.Number(n)
	}
	filled := 0
	for _, row := range ds.Rows {
		if isBlank(row[i]) {
			row[i] = fill
			filled++
		}
	}
	return Change{Step: "fill_nulls", Detail: fmt.Sprintf("filled %d nulls in %s with %s", filled, col, value)}, true
}

func applyConvertNumeric(ds *table.Dataset, col string) (Change, bool) {
	i := ds.ColumnIndex(col)
	if i < 0 {
		return Change{}, false
	}
	c := coercer.New(coercer.DefaultConfig())
	cells := ds.Column(i)
	for r, v := range cells {
		cells[r] = c.CoerceNumeric(v)
	}
	ds.SetColumn(i, cells)
	return Change{Step: "convert_numeric", Detail: "converted " + col + " to numeric"}, true
}

func parseWithLayout(layout, s string) (time.Time, error) {
	return time.Parse(layout, s)
}

func applyParseDate(ds *table.Dataset, col, layout string) (Change, bool) {
	i := ds.ColumnIndex(col)
	if i < 0 {
		return Change{}, false
	}
	c := coercer.New(coercer.DefaultConfig())
	cells := ds.Column(i)
	for r, v := range cells {
		if layout == "" {
			cells[r] = c.CoerceDate(v)
			continue
		}
		if v.IsTime() || v.IsMissing() {
			continue
		}
		s := strings.TrimSpace(v.AsText())
		if s == "" {
			cells[r] = table.Missing()
			continue
		}
		if t, err := parseWithLayout(layout, s); err == nil {
			cells[r] = table.Time(t)
		} else {
			cells[r] = table.Missing()
		}
	}
	ds.SetColumn(i, cells)
	detail := "parsed " + col + " as date"
	if layout != "" {
		detail += " with format " + layout
	}
	return Change{Step: "parse_date", Detail: detail}, true
}
