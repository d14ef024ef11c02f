// Package table holds the in-memory rows-by-named-columns structure that a
// single upload flows through: ingest produces it, the cleaning pipeline
// rewrites it, export serializes it. A Dataset never outlives one request.
package table

// Dataset is an ordered set of named columns over an ordered set of rows.
// Cells start out as text at ingest and may become numeric or temporal
// after cleaning. Cleaning only removes or rewrites, never adds.
type Dataset struct {
	Columns []string  `json:"columns"`
	Rows    [][]Value `json:"rows"`
}

// New creates a dataset with the given header and no rows
func New(columns []string) *Dataset {
	return &Dataset{Columns: columns, Rows: make([][]Value, 0)}
}

// RowCount returns the number of data rows (header excluded)
func (d *Dataset) RowCount() int {
	return len(d.Rows)
}

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int {
	return len(d.Columns)
}

// ColumnIndex returns the position of the named column, or -1
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of column i in row order
func (d *Dataset) Column(i int) []Value {
	col := make([]Value, len(d.Rows))
	for r, row := range d.Rows {
		col[r] = row[i]
	}
	return col
}

// SetColumn rewrites column i in place across all rows
func (d *Dataset) SetColumn(i int, cells []Value) {
	for r := range d.Rows {
		d.Rows[r][i] = cells[r]
	}
}

// NumericColumn extracts the finite numbers of column i, skipping
// everything else. Used by the profiler.
func (d *Dataset) NumericColumn(i int) []float64 {
	out := make([]float64, 0, len(d.Rows))
	for _, row := range d.Rows {
		if row[i].IsNumber() {
			out = append(out, row[i].AsNumber())
		}
	}
	return out
}

// Clone deep-copies the dataset so downstream stages can never mutate
// the caller's copy
func (d *Dataset) Clone() *Dataset {
	cols := make([]string, len(d.Columns))
	copy(cols, d.Columns)
	rows := make([][]Value, len(d.Rows))
	for r, row := range d.Rows {
		rows[r] = make([]Value, len(row))
		copy(rows[r], row)
	}
	return &Dataset{Columns: cols, Rows: rows}
}

// Equal reports whether two datasets have identical headers and cells
func (d *Dataset) Equal(o *Dataset) bool {
	if len(d.Columns) != len(o.Columns) || len(d.Rows) != len(o.Rows) {
		return false
	}
	for i := range d.Columns {
		if d.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for r := range d.Rows {
		for c := range d.Rows[r] {
			if !d.Rows[r][c].Equal(o.Rows[r][c]) {
				return false
			}
		}
	}
	return true
}

// Head returns at most n rows, for UI previews
func (d *Dataset) Head(n int) [][]Value {
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	return d.Rows[:n]
}
