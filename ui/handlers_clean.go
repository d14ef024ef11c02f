package ui

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cleanmycsv/adapters/export"
	"cleanmycsv/adapters/ingest"
	"cleanmycsv/domain/table"
	"cleanmycsv/internal/clean"
	"cleanmycsv/internal/errors"
)

// previewRows bounds how many rows of each side the preview returns
const previewRows = 50

var validExtensions = []string{".csv", ".xlsx", ".xls"}

var validMimeTypes = []string{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", // .xlsx
	"application/vnd.ms-excel", // .xls
	"text/csv",
	"application/csv",
	"text/plain", // some CSV files are detected as plain text
}

// cleanOutcome is what one upload produces before export
type cleanOutcome struct {
	job      *job
	original *table.Dataset
	cleaned  *table.Dataset
	changes  []clean.Change
}

// handleClean runs the full pass and responds with the cleaned file as a
// download
func (s *Server) handleClean(c *gin.Context) {
	outcome, ok := s.processUpload(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, outcome.cleaned, outcome.job.Format); err != nil {
		s.logger.Error("[handleClean] export failed for job %s: %v", outcome.job.ID, err)
		s.renderError(c, "export", err)
		return
	}

	name := export.CleanedFilename(outcome.job.Filename, outcome.job.Format)
	s.logger.Info("[handleClean] job %s done in %s (%d rows -> %d rows), sending %s",
		outcome.job.ID, time.Since(outcome.job.ReceivedAt), outcome.original.RowCount(), outcome.cleaned.RowCount(), name)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, outcome.job.Format.ContentType(), buf.Bytes())
}

// handlePreview runs the same pass but responds with JSON for the page:
// head rows of both sides, the change log, and the report fragments
func (s *Server) handlePreview(c *gin.Context) {
	outcome, ok := s.processUpload(c)
	if !ok {
		return
	}

	qr := reportFor(outcome.original, outcome.cleaned)

	c.JSON(http.StatusOK, gin.H{
		"job_id":           outcome.job.ID.String(),
		"original_columns": outcome.original.Columns,
		"original_rows":    stringRows(outcome.original, previewRows),
		"cleaned_columns":  outcome.cleaned.Columns,
		"cleaned_rows":     stringRows(outcome.cleaned, previewRows),
		"changes":          outcome.changes,
		"report_html":      qr.reportHTML,
		"suggestions_html": qr.suggestionsHTML,
		"download_name":    export.CleanedFilename(outcome.job.Filename, outcome.job.Format),
	})
}

// processUpload validates the multipart upload and runs ingest, the fixed
// pipeline, and any instruction commands. On failure it writes the error
// response itself and returns ok=false.
func (s *Server) processUpload(c *gin.Context) (*cleanOutcome, bool) {
	ctx := c.Request.Context()
	if err := s.cleanSem.Acquire(ctx, 1); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Server is busy, please retry"})
		return nil, false
	}
	defer s.cleanSem.Release(1)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		s.logger.Warn("[processUpload] no file uploaded: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, false
	}
	defer file.Close()

	if !s.validateUpload(c, header) {
		return nil, false
	}

	format, err := export.ParseFormat(c.PostForm("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	j := newJob(header.Filename, format, s.pipelineOptions(c), c.PostForm("instructions"))
	s.logger.Info("[processUpload] job %s started for %s (%d bytes)", j.ID, j.Filename, header.Size)

	original, err := ingest.ReadSheet(file, j.Filename, c.PostForm("sheet"))
	if err != nil {
		s.logger.Warn("[processUpload] ingest failed for job %s: %v", j.ID, err)
		s.renderError(c, "ingest", err)
		return nil, false
	}

	result := clean.NewPipeline(j.Options).Run(original)
	cleaned, extra := clean.ApplyInstructions(result.Dataset, j.Instructions)

	return &cleanOutcome{
		job:      j,
		original: original,
		cleaned:  cleaned,
		changes:  append(result.Changes, extra...),
	}, true
}

// validateUpload checks size and extension, and logs a warning for odd MIME
// types without rejecting, since detection is unreliable
func (s *Server) validateUpload(c *gin.Context, header *multipart.FileHeader) bool {
	maxFileSize := int64(s.cfg.Upload.MaxFileSizeMB) * 1024 * 1024
	if header.Size > maxFileSize {
		s.logger.Warn("[validateUpload] file too large: %d bytes", header.Size)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File size (%.1f MB) exceeds the %dMB limit",
				float64(header.Size)/(1024*1024), s.cfg.Upload.MaxFileSizeMB),
		})
		return false
	}

	filename := strings.ToLower(header.Filename)
	hasValidExtension := false
	for _, ext := range validExtensions {
		if strings.HasSuffix(filename, ext) {
			hasValidExtension = true
			break
		}
	}
	if !hasValidExtension {
		s.logger.Warn("[validateUpload] invalid file extension: %s", header.Filename)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only CSV (.csv) and Excel (.xlsx, .xls) files are allowed"})
		return false
	}

	contentType := header.Header.Get("Content-Type")
	isValidMimeType := false
	for _, mimeType := range validMimeTypes {
		if contentType == mimeType {
			isValidMimeType = true
			break
		}
	}
	if !isValidMimeType && !strings.Contains(contentType, "excel") && !strings.Contains(contentType, "csv") {
		s.logger.Debug("[validateUpload] unexpected MIME type: %s for file: %s", contentType, header.Filename)
	}
	return true
}

// renderError maps the error taxonomy to a status and a single message
// naming the failed stage
func (s *Server) renderError(c *gin.Context, stage string, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeFormatError, errors.CodeEncodingError, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeExportError:
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{
		"error": fmt.Sprintf("%s failed: %v", stage, err),
		"stage": stage,
		"code":  errors.GetCode(err),
	})
}

// stringRows stringifies up to n rows for the JSON preview
func stringRows(ds *table.Dataset, n int) [][]string {
	head := ds.Head(n)
	rows := make([][]string, len(head))
	for r, row := range head {
		rows[r] = make([]string, len(row))
		for i, v := range row {
			rows[r][i] = v.String()
		}
	}
	return rows
}
