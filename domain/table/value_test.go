package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"text", Text("hello"), "hello"},
		{"empty text", Text(""), ""},
		{"integer number", Number(1000), "1000"},
		{"decimal number", Number(2500.5), "2500.5"},
		{"negative number", Number(-0.25), "-0.25"},
		{"midnight renders as date", Time(time.Date(2023, 1, 12, 0, 0, 0, 0, time.UTC)), "2023-01-12"},
		{"timestamp renders as rfc3339", Time(time.Date(2023, 1, 12, 8, 30, 0, 0, time.UTC)), "2023-01-12T08:30:00Z"},
		{"missing", Missing(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.value.String())
		})
	}
}

func TestValueKindPredicates(t *testing.T) {
	assert.True(t, Text("x").IsText())
	assert.True(t, Number(1).IsNumber())
	assert.True(t, Time(time.Now()).IsTime())
	assert.True(t, Missing().IsMissing())

	assert.False(t, Text("x").IsNumber())
	assert.False(t, Missing().IsText())
}

func TestValueEqual(t *testing.T) {
	when := time.Date(2023, 1, 12, 0, 0, 0, 0, time.UTC)

	assert.True(t, Text("a").Equal(Text("a")))
	assert.False(t, Text("a").Equal(Text("A")))
	assert.True(t, Number(1).Equal(Number(1)))
	assert.False(t, Number(1).Equal(Number(2)))
	assert.True(t, Time(when).Equal(Time(when)))
	assert.True(t, Missing().Equal(Missing()))
	assert.False(t, Text("1").Equal(Number(1)))
}

func TestDatasetCloneIsIndependent(t *testing.T) {
	ds := New([]string{"a"})
	ds.Rows = [][]Value{{Text("x")}}

	clone := ds.Clone()
	clone.Columns[0] = "b"
	clone.Rows[0][0] = Text("y")

	assert.Equal(t, "a", ds.Columns[0])
	assert.Equal(t, Text("x"), ds.Rows[0][0])
	assert.False(t, ds.Equal(clone))
}

func TestDatasetColumnAccess(t *testing.T) {
	ds := New([]string{"a", "b"})
	ds.Rows = [][]Value{
		{Text("1"), Number(10)},
		{Text("2"), Number(20)},
	}

	assert.Equal(t, 1, ds.ColumnIndex("b"))
	assert.Equal(t, -1, ds.ColumnIndex("nope"))

	col := ds.Column(1)
	assert.Equal(t, []Value{Number(10), Number(20)}, col)
	assert.Equal(t, []float64{10, 20}, ds.NumericColumn(1))

	ds.SetColumn(0, []Value{Number(1), Number(2)})
	assert.Equal(t, Number(2), ds.Rows[1][0])
}

func TestDatasetHead(t *testing.T) {
	ds := New([]string{"a"})
	ds.Rows = [][]Value{{Text("1")}, {Text("2")}, {Text("3")}}

	assert.Len(t, ds.Head(2), 2)
	assert.Len(t, ds.Head(10), 3)
}
