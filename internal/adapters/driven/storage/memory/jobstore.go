package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/atheneum-labs/passage/internal/core/domain"
	"github.com/atheneum-labs/passage/internal/core/ports/driven"
)

// Ensure JobStore implements the interface.
var _ driven.JobStore = (*JobStore)(nil)

// JobStore is an in-memory implementation of driven.JobStore.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]domain.IngestJob
}

// NewJobStore creates a new in-memory job store.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]domain.IngestJob)}
}

// SaveJob stores or updates a job record.
func (s *JobStore) SaveJob(_ context.Context, job *domain.IngestJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

// GetJob retrieves a job by ID.
func (s *JobStore) GetJob(_ context.Context, id string) (*domain.IngestJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &job, nil
}

// ListJobs returns the most recent jobs, newest first.
func (s *JobStore) ListJobs(_ context.Context, documentID string, limit int) ([]domain.IngestJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]domain.IngestJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		if documentID != "" && job.DocumentID != documentID {
			continue
		}
		jobs = append(jobs, job)
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].EnqueuedAt.After(jobs[j].EnqueuedAt)
	})

	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}
