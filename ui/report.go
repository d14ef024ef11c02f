package ui

import (
	"cleanmycsv/domain/table"
	"cleanmycsv/internal/report"
)

type renderedReport struct {
	reportHTML      string
	suggestionsHTML string
}

// reportFor builds the quality report and suggestion fragments for the
// preview response
func reportFor(original, cleaned *table.Dataset) renderedReport {
	qr := report.Build(original, cleaned)
	return renderedReport{
		reportHTML:      report.RenderHTML(qr.Markdown()),
		suggestionsHTML: report.RenderHTML(report.SuggestionsMarkdown(original)),
	}
}
