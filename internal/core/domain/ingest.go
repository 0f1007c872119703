package domain

import "time"

// JobState tracks the lifecycle of a background ingestion job.
type JobState string

// Job states. Pending and Running are transient; the other three are
// terminal.
const (
	// JobStatePending means the job is queued but no worker has picked
	// it up.
	JobStatePending JobState = "pending"

	// JobStateRunning means a worker is ingesting the document.
	JobStateRunning JobState = "running"

	// JobStateComplete means every page ingested cleanly.
	JobStateComplete JobState = "complete"

	// JobStatePartial means some pages ingested and some failed.
	// Sibling pages are never rolled back on a page failure.
	JobStatePartial JobState = "partial"

	// JobStateFailed means no passages were indexed.
	JobStateFailed JobState = "failed"
)

// IsValid returns true if the state is recognised.
func (s JobState) IsValid() bool {
	switch s {
	case JobStatePending, JobStateRunning, JobStateComplete, JobStatePartial, JobStateFailed:
		return true
	default:
		return false
	}
}

// Terminal returns true once the job can no longer change state.
func (s JobState) Terminal() bool {
	return s == JobStateComplete || s == JobStatePartial || s == JobStateFailed
}

// PageReport records the outcome of ingesting a single page. Failures
// are reported per page, never as an all-or-nothing error for the
// document.
type PageReport struct {
	// PageNumber is the 1-based page.
	PageNumber int `json:"page_number"`

	// PassagesCreated is the number of passages indexed from the page.
	PassagesCreated int `json:"passages_created"`

	// PassagesSkipped counts chunks dropped for being empty or below
	// the minimum length.
	PassagesSkipped int `json:"passages_skipped"`

	// Error is non-empty when the page failed to embed or insert.
	Error string `json:"error,omitempty"`
}

// IngestReport summarises a completed ingestion call.
type IngestReport struct {
	// PassagesCreated across all pages.
	PassagesCreated int `json:"passages_created"`

	// PassagesSkipped across all pages: empty pages and undersized
	// chunks.
	PassagesSkipped int `json:"passages_skipped"`

	// Pages holds the per-page outcomes in page order.
	Pages []PageReport `json:"pages"`
}

// FailedPages counts pages that errored.
func (r IngestReport) FailedPages() int {
	n := 0
	for _, p := range r.Pages {
		if p.Error != "" {
			n++
		}
	}
	return n
}

// State derives the terminal job state for the report.
func (r IngestReport) State() JobState {
	failed := r.FailedPages()
	switch {
	case failed == 0:
		return JobStateComplete
	case r.PassagesCreated > 0:
		return JobStatePartial
	default:
		return JobStateFailed
	}
}

// IngestJob is the queryable status record for a submitted document.
// It replaces fire-and-forget background ingestion: progress and failure
// are observable rather than logged and lost.
type IngestJob struct {
	// ID is a random UUID assigned at submission.
	ID string

	// OwnerID and DocumentID scope the ingested passages.
	OwnerID    string
	DocumentID string

	// State is the current lifecycle state.
	State JobState

	// Report is populated once the job reaches a terminal state.
	Report IngestReport

	// Error is set when the job failed outright.
	Error string

	// EnqueuedAt, StartedAt and FinishedAt trace the job through the
	// pool. StartedAt and FinishedAt are zero until reached.
	EnqueuedAt time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}
