package mcp

import (
	"context"

	"github.com/atheneum-labs/passage/internal/core/domain"
)

// mockEngine is a mock implementation of driving.Engine.
type mockEngine struct {
	results []domain.SearchResult
	block   domain.ContextBlock
	report  *domain.IngestReport
	stats   domain.StoreStats
	deleted int
	err     error

	lastOwner    string
	lastOpts     domain.SearchOptions
	lastMaxChars int
}

func (m *mockEngine) Ingest(
	_ context.Context, _, _ string, _ []domain.Page,
) (*domain.IngestReport, error) {
	return m.report, m.err
}

func (m *mockEngine) Query(
	_ context.Context, owner, _ string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastOwner = owner
	m.lastOpts = opts
	return m.results, m.err
}

func (m *mockEngine) GetContext(
	_ context.Context, owner, _ string, opts domain.SearchOptions, maxChars int,
) (domain.ContextBlock, error) {
	m.lastOwner = owner
	m.lastOpts = opts
	m.lastMaxChars = maxChars
	return m.block, m.err
}

func (m *mockEngine) SimilarPassages(
	_ context.Context, owner, _, _ string, _ int,
) ([]domain.SearchResult, error) {
	m.lastOwner = owner
	return m.results, m.err
}

func (m *mockEngine) RemoveDocument(_ context.Context, _ string) (int, error) {
	return m.deleted, m.err
}

func (m *mockEngine) Stats(_ context.Context) (domain.StoreStats, error) {
	return m.stats, m.err
}

// mockIngestor is a mock implementation of driving.Ingestor.
type mockIngestor struct {
	job  *domain.IngestJob
	jobs []domain.IngestJob
	err  error
}

func (m *mockIngestor) Start() {}
func (m *mockIngestor) Stop()  {}

func (m *mockIngestor) Submit(
	_ context.Context, _, _ string, _ []domain.Page,
) (string, error) {
	if m.job != nil {
		return m.job.ID, m.err
	}
	return "", m.err
}

func (m *mockIngestor) Status(_ context.Context, _ string) (*domain.IngestJob, error) {
	if m.job == nil && m.err == nil {
		return nil, domain.ErrNotFound
	}
	return m.job, m.err
}

func (m *mockIngestor) Jobs(_ context.Context, _ string, _ int) ([]domain.IngestJob, error) {
	return m.jobs, m.err
}
