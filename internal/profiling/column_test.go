package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleanmycsv/domain/table"
)

func TestProfileColumnText(t *testing.T) {
	cells := []table.Value{
		table.Text("a"),
		table.Text("b"),
		table.Text("a"),
		table.Missing(),
	}

	p := ProfileColumn("label", cells, nil)
	assert.Equal(t, "label", p.Name)
	assert.Equal(t, "text", p.Kind)
	assert.InDelta(t, 0.25, p.MissingRate, 1e-9)
	assert.Equal(t, 2, p.UniqueCount)
	assert.Nil(t, p.Summary)
}

func TestProfileColumnNumeric(t *testing.T) {
	cells := []table.Value{
		table.Number(10), table.Number(20), table.Number(30),
		table.Number(40), table.Number(50),
	}
	numbers := []float64{10, 20, 30, 40, 50}

	p := ProfileColumn("score", cells, numbers)
	assert.Equal(t, "number", p.Kind)
	assert.Equal(t, 5, p.UniqueCount)
	require.NotNil(t, p.Summary)
	assert.InDelta(t, 30, p.Summary.Mean, 1e-9)
	assert.InDelta(t, 30, p.Summary.Median, 1e-9)
	assert.InDelta(t, 10, p.Summary.Min, 1e-9)
	assert.InDelta(t, 50, p.Summary.Max, 1e-9)
	assert.Equal(t, 0, p.Summary.OutlierCount)
}

func TestProfileColumnOutliers(t *testing.T) {
	numbers := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 1000}
	cells := make([]table.Value, len(numbers))
	for i, n := range numbers {
		cells[i] = table.Number(n)
	}

	p := ProfileColumn("v", cells, numbers)
	require.NotNil(t, p.Summary)
	assert.Equal(t, 1, p.Summary.OutlierCount)
}

func TestProfileColumnTooFewNumbers(t *testing.T) {
	cells := []table.Value{table.Number(1), table.Number(2)}

	p := ProfileColumn("v", cells, []float64{1, 2})
	assert.Nil(t, p.Summary)
}

func TestDominantKind(t *testing.T) {
	when := table.Time(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name  string
		cells []table.Value
		want  string
	}{
		{"all text", []table.Value{table.Text("a"), table.Text("b")}, "text"},
		{"all number", []table.Value{table.Number(1), table.Missing()}, "number"},
		{"all time", []table.Value{when, when}, "time"},
		{"mixed", []table.Value{table.Text("a"), table.Number(1)}, "mixed"},
		{"all missing", []table.Value{table.Missing()}, "text"},
		{"empty", nil, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dominantKind(tt.cells))
		})
	}
}

func TestProfileDataset(t *testing.T) {
	ds := table.New([]string{"name", "score"})
	ds.Rows = [][]table.Value{
		{table.Text("a"), table.Number(1)},
		{table.Text("b"), table.Number(2)},
		{table.Text("c"), table.Number(3)},
	}

	profiles := ProfileDataset(ds)
	require.Len(t, profiles, 2)
	assert.Equal(t, "name", profiles[0].Name)
	assert.Equal(t, "text", profiles[0].Kind)
	assert.Equal(t, "number", profiles[1].Kind)
	assert.NotNil(t, profiles[1].Summary)
}
