// Package ingest parses an uploaded byte stream into a Dataset. The source
// format is chosen by file extension; CSV delimiters are sniffed from the
// content. Everything is read into memory, the documented resource bound.
package ingest

import (
	"bytes"
	"encoding/csv"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"cleanmycsv/domain/table"
	"cleanmycsv/internal/errors"

	"github.com/xuri/excelize/v2"
)

// delimiter candidates, checked by occurrence count in a content sample
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// sniffLimit bounds how much content the delimiter sniffer looks at
const sniffLimit = 64 * 1024

// Read parses r into a Dataset, picking the parser from the filename
// extension. The first row is the header.
func Read(r io.Reader, filename string) (*table.Dataset, error) {
	return ReadSheet(r, filename, "")
}

// ReadSheet is Read with an explicit Excel sheet name. An empty sheet name
// means the workbook's first sheet. The sheet argument is ignored for CSV.
func ReadSheet(r io.Reader, filename, sheet string) (*table.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload")
	}
	if len(data) == 0 {
		return nil, errors.FormatError("uploaded file is empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return readCSV(data)
	case ".xlsx", ".xls":
		return readExcel(data, sheet)
	default:
		return nil, errors.FormatError("unsupported file extension: " + ext)
	}
}

// DetectDelimiter picks the candidate with the highest occurrence count in
// the sample. A tie or an all-zero count defaults to comma.
func DetectDelimiter(sample string) rune {
	best := ','
	bestCount := 0
	for _, cand := range delimiterCandidates {
		count := strings.Count(sample, string(cand))
		if count > bestCount {
			best = cand
			bestCount = count
		}
	}
	if bestCount == 0 {
		return ','
	}
	return best
}

func readCSV(data []byte) (*table.Dataset, error) {
	// Strip a UTF-8 BOM before validation and parsing
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	if !utf8.Valid(data) {
		return nil, errors.EncodingError("CSV content is not valid UTF-8")
	}

	sample := data
	if len(sample) > sniffLimit {
		sample = sample[:sniffLimit]
	}
	delim := DetectDelimiter(string(sample))

	readStart := time.Now()
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1 // tolerate ragged rows
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeFormatError, errors.Wrap(err, "failed to parse CSV content"))
	}
	if len(rows) == 0 {
		return nil, errors.FormatError("CSV file has no rows")
	}
	log.Printf("[Ingest] CSV parsed in %.2fms (%d rows, delimiter %q)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows), string(delim))

	return fromRows(rows), nil
}

func readExcel(data []byte, sheet string) (*table.Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WithCode(errors.CodeFormatError, errors.Wrap(err, "failed to open Excel workbook"))
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.FormatError("Excel workbook has no sheets")
		}
		sheet = sheets[0]
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.WithCode(errors.CodeFormatError, errors.Wrapf(err, "failed to read sheet %q", sheet))
	}
	if len(rows) == 0 {
		return nil, errors.FormatError("Excel sheet has no rows")
	}
	log.Printf("[Ingest] sheet %q read in %.2fms (%d rows)",
		sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return fromRows(rows), nil
}

// fromRows builds a Dataset from raw string rows. The first row is the
// header; data rows are padded or truncated to the header width. All cells
// start as text, blank handling belongs to the cleaning pipeline.
func fromRows(rows [][]string) *table.Dataset {
	header := rows[0]
	ds := table.New(append([]string(nil), header...))

	for _, raw := range rows[1:] {
		row := make([]table.Value, len(header))
		for i := range header {
			if i < len(raw) {
				row[i] = table.Text(raw[i])
			} else {
				row[i] = table.Text("")
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}
