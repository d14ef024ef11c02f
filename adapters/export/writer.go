// Package export serializes a cleaned Dataset into a downloadable byte
// stream. CSV output is always comma-delimited UTF-8 regardless of the
// delimiter the file arrived with; Excel output is a single sheet with the
// header row. Exporters never mutate the dataset.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cleanmycsv/domain/table"
	"cleanmycsv/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Format identifies a download format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the single sheet written to Excel downloads
const SheetName = "Cleaned Data"

// Excel format limits (xlsx), header row included
const (
	maxExcelRows    = 1048576
	maxExcelColumns = 16384
)

// ParseFormat validates a requested output format string
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", errors.InvalidInput("unsupported output format: " + s)
	}
}

// ContentType returns the MIME type for the download response
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write serializes ds to w in the requested format
func Write(w io.Writer, ds *table.Dataset, format Format) error {
	if format == FormatXLSX {
		return WriteXLSX(w, ds)
	}
	return WriteCSV(w, ds)
}

// WriteCSV writes the dataset as comma-delimited UTF-8 with a header row
func WriteCSV(w io.Writer, ds *table.Dataset) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ds.Columns); err != nil {
		return errors.WithCode(errors.CodeExportError, errors.Wrap(err, "failed to write CSV header"))
	}
	record := make([]string, len(ds.Columns))
	for _, row := range ds.Rows {
		for i, v := range row {
			record[i] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return errors.WithCode(errors.CodeExportError, errors.Wrap(err, "failed to write CSV row"))
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.WithCode(errors.CodeExportError, errors.Wrap(err, "failed to flush CSV output"))
	}
	return nil
}

// WriteXLSX writes the dataset as a single-sheet workbook
func WriteXLSX(w io.Writer, ds *table.Dataset) error {
	if len(ds.Rows)+1 > maxExcelRows {
		return errors.ExportError(fmt.Sprintf("dataset has %d rows, Excel allows at most %d including the header", len(ds.Rows), maxExcelRows-1))
	}
	if len(ds.Columns) > maxExcelColumns {
		return errors.ExportError(fmt.Sprintf("dataset has %d columns, Excel allows at most %d", len(ds.Columns), maxExcelColumns))
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return errors.WithCode(errors.CodeExportError, errors.Wrap(err, "failed to name sheet"))
	}

	// Header row
	for i, h := range ds.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return errors.WithCode(errors.CodeExportError, errors.Wrap(err, "failed to write header cell"))
		}
	}

	// Data rows, numbers written as native numeric cells
	for r, row := range ds.Rows {
		rowIdx := r + 2
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			var err error
			if v.IsNumber() {
				err = f.SetCellValue(SheetName, cell, v.AsNumber())
			} else {
				err = f.SetCellValue(SheetName, cell, v.String())
			}
			if err != nil {
				return errors.WithCode(errors.CodeExportError, errors.Wrap(err, "failed to write cell"))
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.WithCode(errors.CodeExportError, errors.Wrap(err, "failed to write workbook"))
	}
	return nil
}

// CleanedFilename derives the download name from the uploaded name:
// the base with a "_cleaned" suffix and the output format's extension.
func CleanedFilename(input string, format Format) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if base == "" || base == "." {
		base = "dataset"
	}
	ext := "csv"
	if format == FormatXLSX {
		ext = "xlsx"
	}
	return base + "_cleaned." + ext
}
