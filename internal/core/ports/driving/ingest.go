package driving

import (
	"context"

	"github.com/atheneum-labs/passage/internal/core/domain"
)

// Ingestor runs document ingestion on a bounded worker pool with
// queryable per-job status, instead of unsupervised background threads.
type Ingestor interface {
	// Start launches the worker pool. Idempotent.
	Start()

	// Stop shuts the pool down. Blocks until every accepted job has
	// run to a terminal state, queued ones included.
	Stop()

	// Submit enqueues a document for ingestion and returns the job ID.
	// Blocks while the queue is full; fails with
	// domain.ErrIngestorStopped once the pool is stopped.
	Submit(ctx context.Context, ownerID, documentID string, pages []domain.Page) (string, error)

	// Status returns the job record, or domain.ErrNotFound.
	Status(ctx context.Context, jobID string) (*domain.IngestJob, error)

	// Jobs lists recent jobs, newest first.
	Jobs(ctx context.Context, documentID string, limit int) ([]domain.IngestJob, error)
}
