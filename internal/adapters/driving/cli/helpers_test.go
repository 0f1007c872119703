package cli

import (
	"context"

	"github.com/atheneum-labs/passage/internal/core/domain"
)

// fakeEngine backs command tests without an embedding backend.
type fakeEngine struct {
	results []domain.SearchResult
	block   domain.ContextBlock
	stats   domain.StoreStats
	deleted int
	err     error

	lastOpts     domain.SearchOptions
	lastMaxChars int
}

func (f *fakeEngine) Ingest(
	_ context.Context, _, _ string, pages []domain.Page,
) (*domain.IngestReport, error) {
	if f.err != nil {
		return nil, f.err
	}
	report := &domain.IngestReport{}
	for _, p := range pages {
		report.Pages = append(report.Pages, domain.PageReport{PageNumber: p.PageNumber, PassagesCreated: 1})
		report.PassagesCreated++
	}
	return report, nil
}

func (f *fakeEngine) Query(
	_ context.Context, _, _ string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	f.lastOpts = opts
	return f.results, f.err
}

func (f *fakeEngine) GetContext(
	_ context.Context, _, _ string, opts domain.SearchOptions, maxChars int,
) (domain.ContextBlock, error) {
	f.lastOpts = opts
	f.lastMaxChars = maxChars
	return f.block, f.err
}

func (f *fakeEngine) SimilarPassages(
	_ context.Context, _, _, _ string, _ int,
) ([]domain.SearchResult, error) {
	return f.results, f.err
}

func (f *fakeEngine) RemoveDocument(_ context.Context, _ string) (int, error) {
	return f.deleted, f.err
}

func (f *fakeEngine) Stats(_ context.Context) (domain.StoreStats, error) {
	return f.stats, f.err
}

// setupTestServices installs a fake engine and returns a cleanup that
// restores the package state.
func setupTestServices(engine *fakeEngine) func() {
	oldEngine := engineService
	oldRetrieval := retrievalSettings
	engineService = engine
	return func() {
		engineService = oldEngine
		retrievalSettings = oldRetrieval
	}
}

func sampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Passage: domain.Passage{
				ID:         "notes:p1:c0",
				DocumentID: "notes",
				PageNumber: 1,
				Text:       "Redox reactions transfer electrons.",
			},
			Similarity: 0.88,
			Rank:       1,
		},
	}
}
