package driven

import (
	"context"

	"github.com/atheneum-labs/passage/internal/core/domain"
)

// JobStore persists ingestion job records so that background ingestion
// is observable: callers can poll a job through
// pending, running and its terminal state.
type JobStore interface {
	// SaveJob stores or updates a job record.
	SaveJob(ctx context.Context, job *domain.IngestJob) error

	// GetJob retrieves a job by ID. Returns domain.ErrNotFound when no
	// such job exists.
	GetJob(ctx context.Context, id string) (*domain.IngestJob, error)

	// ListJobs returns the most recent jobs, newest first, at most
	// limit entries. A non-empty documentID filters to one document.
	ListJobs(ctx context.Context, documentID string, limit int) ([]domain.IngestJob, error)
}
