// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"
	"time"
)

// SourceError records why one source produced nothing.
type SourceError struct {
	Journal string `json:"journal"`
	Error   string `json:"error"`
}

// Report is the outcome of one run.
type Report struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Processed  []string      `json:"processed"`
	Skipped    []string      `json:"skipped"`
	Errors     []SourceError `json:"errors"`
}

// Total returns the number of sources handled.
func (r *Report) Total() int {
	return len(r.Processed) + len(r.Skipped) + len(r.Errors)
}

// Succeeded reports whether the run did anything useful: a run fails only
// when every source errored.
func (r *Report) Succeeded() bool {
	return len(r.Processed)+len(r.Skipped) > 0 || len(r.Errors) == 0
}

// WriteSummary prints the batch summary line and any errors to w.
func (r *Report) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "\nBatch summary: %d processed, %d skipped, %d errors (total: %d)\n",
		len(r.Processed), len(r.Skipped), len(r.Errors), r.Total())
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s: %s\n", e.Journal, e.Error)
	}
}
