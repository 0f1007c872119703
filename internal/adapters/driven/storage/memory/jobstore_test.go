package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atheneum-labs/passage/internal/core/domain"
)

func TestJobStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewJobStore()

	job := &domain.IngestJob{
		ID:         "job-1",
		OwnerID:    "u1",
		DocumentID: "d1",
		State:      domain.JobStatePending,
		EnqueuedAt: time.Now(),
	}
	require.NoError(t, store.SaveJob(ctx, job))

	got, err := store.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatePending, got.State)

	// Saving again overwrites in place.
	job.State = domain.JobStateRunning
	require.NoError(t, store.SaveJob(ctx, job))

	got, err = store.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStateRunning, got.State)
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore()

	_, err := store.GetJob(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobStore_MutationIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewJobStore()

	job := &domain.IngestJob{ID: "job-1", State: domain.JobStatePending, EnqueuedAt: time.Now()}
	require.NoError(t, store.SaveJob(ctx, job))

	got, err := store.GetJob(ctx, "job-1")
	require.NoError(t, err)
	got.State = domain.JobStateFailed

	again, err := store.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatePending, again.State)
}

func TestJobStore_ListJobs(t *testing.T) {
	ctx := context.Background()
	store := NewJobStore()

	base := time.Now()
	for i, doc := range []string{"d1", "d2", "d1"} {
		job := &domain.IngestJob{
			ID:         string(rune('a' + i)),
			DocumentID: doc,
			State:      domain.JobStateComplete,
			EnqueuedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, store.SaveJob(ctx, job))
	}

	// Newest first, no filter.
	jobs, err := store.ListJobs(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "c", jobs[0].ID)
	assert.Equal(t, "a", jobs[2].ID)

	// Document filter.
	jobs, err = store.ListJobs(ctx, "d1", 0)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "c", jobs[0].ID)
	assert.Equal(t, "a", jobs[1].ID)

	// Limit applies after ordering.
	jobs, err = store.ListJobs(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "c", jobs[0].ID)
}
