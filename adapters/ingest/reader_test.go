package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cleanmycsv/domain/table"
	"cleanmycsv/internal/errors"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   rune
	}{
		{"comma", "a,b,c\n1,2,3\n", ','},
		{"semicolon", "a;b;c\n1;2;3\n", ';'},
		{"tab", "a\tb\tc\n1\t2\t3\n", '\t'},
		{"pipe", "a|b|c\n1|2|3\n", '|'},
		{"semicolons outnumber commas", "a;b;c;d\nx,1;2;3;4\n", ';'},
		{"no delimiter defaults to comma", "justoneword\nanother\n", ','},
		{"empty defaults to comma", "", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter(tt.sample))
		})
	}
}

func TestReadCSV(t *testing.T) {
	csv := "Name,Amount\nWidget,\"1,000\"\nGadget,2000\n"

	ds, err := Read(strings.NewReader(csv), "data.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Amount"}, ds.Columns)
	require.Equal(t, 2, ds.RowCount())
	assert.Equal(t, table.Text("1,000"), ds.Rows[0][1])
	assert.Equal(t, table.Text("Gadget"), ds.Rows[1][0])
}

func TestReadCSVSemicolonDelimited(t *testing.T) {
	csv := "name;city\nAda;London\nEnzo;Milan\n"

	ds, err := Read(strings.NewReader(csv), "export.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "city"}, ds.Columns)
	assert.Equal(t, table.Text("Milan"), ds.Rows[1][1])
}

func TestReadCSVStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a,b\n1,2\n")...)

	ds, err := Read(bytes.NewReader(data), "bom.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Columns)
}

func TestReadCSVRaggedRows(t *testing.T) {
	csv := "a,b,c\n1,2\n1,2,3,4\n"

	ds, err := Read(strings.NewReader(csv), "ragged.csv")
	require.NoError(t, err)
	require.Equal(t, 2, ds.RowCount())
	// Short rows are padded, long rows truncated to the header width
	assert.Equal(t, table.Text(""), ds.Rows[0][2])
	assert.Len(t, ds.Rows[1], 3)
	assert.Equal(t, table.Text("3"), ds.Rows[1][2])
}

func TestReadCSVHeaderOnly(t *testing.T) {
	ds, err := Read(strings.NewReader("a,b\n"), "empty.csv")
	require.NoError(t, err)
	assert.Equal(t, 0, ds.RowCount())
	assert.Equal(t, 2, ds.ColumnCount())
}

func TestReadInvalidUTF8(t *testing.T) {
	data := []byte{'a', ',', 'b', '\n', 0xFF, 0xFE, ',', 'x', '\n'}

	_, err := Read(bytes.NewReader(data), "latin1.csv")
	require.Error(t, err)
	assert.Equal(t, errors.CodeEncodingError, errors.GetCode(err))
}

func TestReadEmptyFile(t *testing.T) {
	_, err := Read(strings.NewReader(""), "empty.csv")
	require.Error(t, err)
	assert.Equal(t, errors.CodeFormatError, errors.GetCode(err))
}

func TestReadUnsupportedExtension(t *testing.T) {
	_, err := Read(strings.NewReader("hello"), "notes.txt")
	require.Error(t, err)
	assert.Equal(t, errors.CodeFormatError, errors.GetCode(err))
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "score"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Ada"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 95))

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	ds, err := Read(&buf, "scores.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "score"}, ds.Columns)
	require.Equal(t, 1, ds.RowCount())
	// Excel cells arrive as text; typing is the pipeline's job
	assert.Equal(t, table.Text("Ada"), ds.Rows[0][0])
	assert.Equal(t, table.Text("95"), ds.Rows[0][1])
}

func TestReadXLSXNamedSheet(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Extra")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Extra", "A1", "only"))
	require.NoError(t, f.SetCellValue("Extra", "A2", "here"))

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)

	ds, err := ReadSheet(&buf, "book.xlsx", "Extra")
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, ds.Columns)
	assert.Equal(t, table.Text("here"), ds.Rows[0][0])
}

func TestReadXLSXCorrupt(t *testing.T) {
	_, err := Read(strings.NewReader("this is not a zip archive"), "broken.xlsx")
	require.Error(t, err)
	assert.Equal(t, errors.CodeFormatError, errors.GetCode(err))
}
