package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atheneum-labs/passage/internal/core/domain"
	"github.com/atheneum-labs/passage/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), "test-model", 3)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testPassage(owner, doc string, page, chunk int, text string, vec []float32) domain.Passage {
	return domain.Passage{
		ID:         domain.PassageID(doc, page, chunk),
		OwnerID:    owner,
		DocumentID: doc,
		PageNumber: page,
		ChunkIndex: chunk,
		Text:       text,
		StartChar:  0,
		EndChar:    len(text),
		Vector:     vec,
	}
}

func TestStore_InsertAndSearch(t *testing.T) {
	ctx := context.Background()
	vs := newTestStore(t).VectorStore()

	n, err := vs.Insert(ctx, []domain.Passage{
		testPassage("u1", "d1", 1, 0, "exact match", []float32{1, 0, 0}),
		testPassage("u1", "d1", 2, 0, "orthogonal", []float32{0, 1, 0}),
		testPassage("u1", "d1", 3, 0, "close", []float32{0.9, 0.1, 0}),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	results, err := vs.Search(ctx, []float32{1, 0, 0}, driven.SearchFilter{OwnerID: "u1"}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "exact match", results[0].Passage.Text)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.Equal(t, "close", results[1].Passage.Text)
	assert.Equal(t, "orthogonal", results[2].Passage.Text)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, 3, results[2].Rank)
}

func TestStore_VectorRoundTrip(t *testing.T) {
	ctx := context.Background()
	vs := newTestStore(t).VectorStore()

	vec := []float32{0.123456, -0.654321, 42.5}
	_, err := vs.Insert(ctx, []domain.Passage{testPassage("u1", "d1", 1, 0, "text here", vec)})
	require.NoError(t, err)

	results, err := vs.Search(ctx, vec, driven.SearchFilter{OwnerID: "u1"}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, vec, results[0].Passage.Vector)
	assert.Equal(t, 9, results[0].Passage.EndChar)
}

func TestStore_InsertUpsert(t *testing.T) {
	ctx := context.Background()
	vs := newTestStore(t).VectorStore()

	p := testPassage("u1", "d1", 1, 0, "first version", []float32{1, 0, 0})
	_, err := vs.Insert(ctx, []domain.Passage{p})
	require.NoError(t, err)

	p.Text = "second version"
	_, err = vs.Insert(ctx, []domain.Passage{p})
	require.NoError(t, err)

	stats, err := vs.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalPassages)

	results, err := vs.Search(ctx, []float32{1, 0, 0}, driven.SearchFilter{OwnerID: "u1"}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "second version", results[0].Passage.Text)
}

func TestStore_InsertDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	vs := newTestStore(t).VectorStore()

	_, err := vs.Insert(ctx, []domain.Passage{
		testPassage("u1", "d1", 1, 0, "good", []float32{1, 0, 0}),
		testPassage("u1", "d1", 1, 1, "bad", []float32{1, 0, 0, 0}),
	})
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)

	stats, err := vs.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalPassages)
}

func TestStore_SearchFilters(t *testing.T) {
	ctx := context.Background()
	vs := newTestStore(t).VectorStore()

	_, err := vs.Insert(ctx, []domain.Passage{
		testPassage("alice", "d1", 1, 0, "alice d1", []float32{1, 0, 0}),
		testPassage("alice", "d2", 1, 0, "alice d2", []float32{1, 0, 0}),
		testPassage("bob", "d3", 1, 0, "bob d3", []float32{1, 0, 0}),
	})
	require.NoError(t, err)

	results, err := vs.Search(ctx, []float32{1, 0, 0}, driven.SearchFilter{OwnerID: "alice"}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = vs.Search(ctx, []float32{1, 0, 0},
		driven.SearchFilter{OwnerID: "alice", DocumentIDs: []string{"d2"}}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alice d2", results[0].Passage.Text)

	results, err = vs.Search(ctx, []float32{1, 0, 0},
		driven.SearchFilter{OwnerID: "alice", DocumentIDs: []string{"ghost"}}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_SearchTieBreak(t *testing.T) {
	ctx := context.Background()
	vs := newTestStore(t).VectorStore()

	vec := []float32{1, 0, 0}
	_, err := vs.Insert(ctx, []domain.Passage{
		testPassage("u1", "d2", 1, 0, "b", vec),
		testPassage("u1", "d1", 2, 1, "a2", vec),
		testPassage("u1", "d1", 2, 0, "a1", vec),
	})
	require.NoError(t, err)

	results, err := vs.Search(ctx, vec, driven.SearchFilter{OwnerID: "u1"}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "a1", results[0].Passage.Text)
	assert.Equal(t, "a2", results[1].Passage.Text)
	assert.Equal(t, "b", results[2].Passage.Text)
}

func TestStore_DeleteByDocument(t *testing.T) {
	ctx := context.Background()
	vs := newTestStore(t).VectorStore()

	_, err := vs.Insert(ctx, []domain.Passage{
		testPassage("u1", "d1", 1, 0, "one", []float32{1, 0, 0}),
		testPassage("u1", "d1", 2, 0, "two", []float32{0, 1, 0}),
		testPassage("u1", "d2", 1, 0, "keep", []float32{0, 0, 1}),
	})
	require.NoError(t, err)

	deleted, err := vs.DeleteByDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	deleted, err = vs.DeleteByDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Zero(t, deleted)

	stats, err := vs.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalPassages)
	assert.Equal(t, 1, stats.Documents)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir, "test-model", 3)
	require.NoError(t, err)
	_, err = store.VectorStore().Insert(ctx, []domain.Passage{
		testPassage("u1", "d1", 1, 0, "survives restart", []float32{1, 0, 0}),
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewStore(dir, "test-model", 3)
	require.NoError(t, err)
	defer store.Close()

	results, err := store.VectorStore().Search(ctx, []float32{1, 0, 0},
		driven.SearchFilter{OwnerID: "u1"}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "survives restart", results[0].Passage.Text)
}

func TestStore_RefusesModelChange(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir, "model-a", 3)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = NewStore(dir, "model-b", 3)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = NewStore(dir, "model-a", 4)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	store, err = NewStore(dir, "model-a", 3)
	require.NoError(t, err)
	store.Close()
}

func TestStore_ClosedErrors(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	vs := store.VectorStore()
	require.NoError(t, store.Close())

	_, err := vs.Insert(ctx, []domain.Passage{testPassage("u1", "d1", 1, 0, "x", []float32{1, 0, 0})})
	assert.ErrorIs(t, err, domain.ErrStoreClosed)

	_, err = vs.Search(ctx, []float32{1, 0, 0}, driven.SearchFilter{OwnerID: "u1"}, 1)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
}

func TestJobStore_SaveGetList(t *testing.T) {
	ctx := context.Background()
	js := newTestStore(t).JobStore()

	base := time.Now().UTC().Truncate(time.Second)
	job := &domain.IngestJob{
		ID:         "job-1",
		OwnerID:    "u1",
		DocumentID: "d1",
		State:      domain.JobStatePending,
		EnqueuedAt: base,
	}
	require.NoError(t, js.SaveJob(ctx, job))

	got, err := js.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatePending, got.State)
	assert.True(t, got.StartedAt.IsZero())

	job.State = domain.JobStateComplete
	job.StartedAt = base.Add(time.Second)
	job.FinishedAt = base.Add(2 * time.Second)
	job.Report = domain.IngestReport{
		PassagesCreated: 4,
		Pages:           []domain.PageReport{{PageNumber: 1, PassagesCreated: 4}},
	}
	require.NoError(t, js.SaveJob(ctx, job))

	got, err = js.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStateComplete, got.State)
	assert.Equal(t, 4, got.Report.PassagesCreated)
	require.Len(t, got.Report.Pages, 1)
	assert.False(t, got.FinishedAt.IsZero())

	second := &domain.IngestJob{
		ID:         "job-2",
		OwnerID:    "u1",
		DocumentID: "d2",
		State:      domain.JobStatePending,
		EnqueuedAt: base.Add(time.Minute),
	}
	require.NoError(t, js.SaveJob(ctx, second))

	jobs, err := js.ListJobs(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "job-2", jobs[0].ID)

	jobs, err = js.ListJobs(ctx, "d1", 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "job-1", jobs[0].ID)

	jobs, err = js.ListJobs(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "job-2", jobs[0].ID)
}

func TestJobStore_GetMissing(t *testing.T) {
	js := newTestStore(t).JobStore()

	_, err := js.GetJob(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
