package ui

import (
	"time"

	"github.com/google/uuid"

	"cleanmycsv/adapters/export"
	"cleanmycsv/internal/clean"
)

// job is the per-request context threaded through the ingest, clean and
// export stages. One upload makes one job; nothing outlives the response.
type job struct {
	ID           uuid.UUID
	Filename     string
	Format       export.Format
	Options      clean.Options
	Instructions string
	ReceivedAt   time.Time
}

func newJob(filename string, format export.Format, opts clean.Options, instructions string) *job {
	return &job{
		ID:           uuid.New(),
		Filename:     filename,
		Format:       format,
		Options:      opts,
		Instructions: instructions,
		ReceivedAt:   time.Now(),
	}
}
