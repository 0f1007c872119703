package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atheneum-labs/passage/internal/core/domain"
	"github.com/atheneum-labs/passage/internal/core/ports/driven"
	"github.com/atheneum-labs/passage/internal/core/ports/driving"
	"github.com/atheneum-labs/passage/internal/logger"
)

// Ensure IngestPool implements the interface.
var _ driving.Ingestor = (*IngestPool)(nil)

// Pool defaults.
const (
	// DefaultWorkers is the number of concurrent ingestion workers.
	DefaultWorkers = 2

	// DefaultQueueDepth bounds jobs waiting for a worker.
	DefaultQueueDepth = 8
)

// queuedJob pairs a job record with the pages to ingest. Pages live
// only in memory while queued; the persisted record carries status.
type queuedJob struct {
	job   *domain.IngestJob
	pages []domain.Page
}

// IngestPool runs document ingestion on a bounded worker pool. Every
// submission gets a persisted job record that moves through
// pending, running and a terminal state, so progress and failure are
// observable instead of vanishing into a detached thread.
type IngestPool struct {
	engine  driving.Engine
	jobs    driven.JobStore
	workers int

	mu      sync.Mutex
	running bool
	queue   chan queuedJob
	stopCh  chan struct{}
	wg      sync.WaitGroup
	submits sync.WaitGroup
}

// NewIngestPool creates a pool. workers <= 0 and queueDepth <= 0 select
// the defaults.
func NewIngestPool(engine driving.Engine, jobs driven.JobStore, workers, queueDepth int) *IngestPool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueDepth <= 0 {
		queueDepth = DefaultQueueDepth
	}
	return &IngestPool{
		engine:  engine,
		jobs:    jobs,
		workers: workers,
		queue:   make(chan queuedJob, queueDepth),
	}
}

// Start launches the workers. Idempotent.
func (p *IngestPool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	logger.Debug("Ingest pool started with %d workers", p.workers)
}

// Stop shuts the pool down. Every job accepted by Submit runs to a
// terminal state before Stop returns: in-flight Submit calls finish
// first, then workers drain whatever is still queued.
func (p *IngestPool) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	// No new submissions can start now; wait for the ones already past
	// the running check so the queue has its final contents.
	p.submits.Wait()
	close(p.stopCh)

	p.wg.Wait()
	logger.Debug("Ingest pool stopped")
}

// Submit enqueues a document for ingestion and returns the job ID.
// Blocks while the queue is full.
func (p *IngestPool) Submit(
	ctx context.Context, ownerID, documentID string, pages []domain.Page,
) (string, error) {
	ownerID, err := domain.CanonicalID(ownerID)
	if err != nil {
		return "", err
	}
	documentID, err = domain.CanonicalID(documentID)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return "", domain.ErrIngestorStopped
	}
	// Registered before the lock drops so Stop waits for this call.
	p.submits.Add(1)
	p.mu.Unlock()
	defer p.submits.Done()

	job := &domain.IngestJob{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		DocumentID: documentID,
		State:      domain.JobStatePending,
		EnqueuedAt: time.Now().UTC(),
	}
	if err := p.jobs.SaveJob(ctx, job); err != nil {
		return "", err
	}

	select {
	case p.queue <- queuedJob{job: job, pages: pages}:
		logger.Debug("Job %s queued for document %s", job.ID, documentID)
		return job.ID, nil
	case <-ctx.Done():
		// The pending record would otherwise linger with no pages to
		// ever run it.
		job.State = domain.JobStateFailed
		job.Error = ctx.Err().Error()
		job.FinishedAt = time.Now().UTC()
		if err := p.jobs.SaveJob(context.Background(), job); err != nil {
			logger.Warn("Job %s: saving cancelled state: %v", job.ID, err)
		}
		return "", ctx.Err()
	}
}

// Status returns the job record.
func (p *IngestPool) Status(ctx context.Context, jobID string) (*domain.IngestJob, error) {
	return p.jobs.GetJob(ctx, jobID)
}

// Jobs lists recent jobs, newest first.
func (p *IngestPool) Jobs(ctx context.Context, documentID string, limit int) ([]domain.IngestJob, error) {
	return p.jobs.ListJobs(ctx, documentID, limit)
}

// worker serves the queue until the pool stops. The stop signal only
// fires once all submissions are in the queue, so draining it before
// exiting leaves no accepted job behind.
func (p *IngestPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case q := <-p.queue:
			p.run(q)
		case <-p.stopCh:
			for {
				select {
				case q := <-p.queue:
					p.run(q)
				default:
					return
				}
			}
		}
	}
}

// run executes one job and persists its terminal state. Jobs use a
// background context: stopping the pool waits for in-flight jobs
// rather than cancelling half-ingested documents.
func (p *IngestPool) run(q queuedJob) {
	ctx := context.Background()

	job := q.job
	job.State = domain.JobStateRunning
	job.StartedAt = time.Now().UTC()
	if err := p.jobs.SaveJob(ctx, job); err != nil {
		logger.Warn("Job %s: saving running state: %v", job.ID, err)
	}

	report, err := p.engine.Ingest(ctx, job.OwnerID, job.DocumentID, q.pages)

	job.FinishedAt = time.Now().UTC()
	switch {
	case err != nil:
		job.State = domain.JobStateFailed
		job.Error = err.Error()
		if report != nil {
			job.Report = *report
		}
	default:
		job.Report = *report
		job.State = report.State()
	}

	if err := p.jobs.SaveJob(ctx, job); err != nil {
		logger.Warn("Job %s: saving terminal state: %v", job.ID, err)
	}
	logger.Info("Job %s finished: %s (%d passages)", job.ID, job.State, job.Report.PassagesCreated)
}
