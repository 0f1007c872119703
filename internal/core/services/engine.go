package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/atheneum-labs/passage/internal/chunker"
	"github.com/atheneum-labs/passage/internal/core/domain"
	"github.com/atheneum-labs/passage/internal/core/ports/driven"
	"github.com/atheneum-labs/passage/internal/core/ports/driving"
	"github.com/atheneum-labs/passage/internal/logger"
)

// Ensure EngineService implements the interface.
var _ driving.Engine = (*EngineService)(nil)

// DefaultEmbedBatchSize bounds the number of chunks sent to the
// embedding backend per round trip during ingestion.
const DefaultEmbedBatchSize = 32

// similarFloor is the fixed similarity cutoff for SimilarPassages.
// Below it, "similar" passages are mostly noise.
const similarFloor = 0.5

// EngineService orchestrates the chunker, the embedder and the vector
// store. All dependencies are injected; the service holds no hidden
// globals and no state of its own.
type EngineService struct {
	splitter  *chunker.Splitter
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	batchSize int
}

// NewEngineService creates the engine. The splitter may be nil, in
// which case chunking defaults apply. batchSize <= 0 selects
// DefaultEmbedBatchSize.
func NewEngineService(
	splitter *chunker.Splitter,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	batchSize int,
) *EngineService {
	if splitter == nil {
		splitter = chunker.New()
	}
	if batchSize <= 0 {
		batchSize = DefaultEmbedBatchSize
	}
	return &EngineService{
		splitter:  splitter,
		embedder:  embedder,
		store:     store,
		batchSize: batchSize,
	}
}

// Ingest chunks, embeds and stores the pages under the owner and
// document. Each page is embedded and inserted independently, so a
// failing page is recorded in its report entry and never aborts its
// siblings. Passage IDs derive from (document, page, chunk index),
// which makes the whole operation idempotent.
func (s *EngineService) Ingest(
	ctx context.Context, ownerID, documentID string, pages []domain.Page,
) (*domain.IngestReport, error) {
	ownerID, err := domain.CanonicalID(ownerID)
	if err != nil {
		return nil, fmt.Errorf("owner id: %w", err)
	}
	documentID, err = domain.CanonicalID(documentID)
	if err != nil {
		return nil, fmt.Errorf("document id: %w", err)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	logger.Section("Ingestion")
	logger.Debug("Document %s: %d pages", documentID, len(pages))

	report := &domain.IngestReport{Pages: make([]domain.PageReport, 0, len(pages))}

	for _, page := range pages {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		pr := s.ingestPage(ctx, ownerID, documentID, page)
		report.Pages = append(report.Pages, pr)
		report.PassagesCreated += pr.PassagesCreated
		report.PassagesSkipped += pr.PassagesSkipped
	}

	logger.Info("Document %s: %d passages created, %d skipped, %d pages failed",
		documentID, report.PassagesCreated, report.PassagesSkipped, report.FailedPages())

	return report, nil
}

// ingestPage handles a single page end to end. Errors end up in the
// report entry, not in an error return.
func (s *EngineService) ingestPage(
	ctx context.Context, ownerID, documentID string, page domain.Page,
) domain.PageReport {
	pr := domain.PageReport{PageNumber: page.PageNumber}

	if strings.TrimSpace(page.Text) == "" {
		// Blank pages are skipped, never failed.
		pr.PassagesSkipped = 1
		logger.Debug("Page %d: blank, skipped", page.PageNumber)
		return pr
	}

	chunks, dropped := s.splitter.Split(page.Text)
	pr.PassagesSkipped = dropped
	if len(chunks) == 0 {
		logger.Debug("Page %d: no chunks above minimum length", page.PageNumber)
		return pr
	}

	passages := make([]domain.Passage, len(chunks))
	for i, text := range chunks {
		start := strings.Index(page.Text, text)
		end := start + len(text)
		if start < 0 {
			start, end = 0, len(text)
		}
		passages[i] = domain.Passage{
			ID:         domain.PassageID(documentID, page.PageNumber, i),
			OwnerID:    ownerID,
			DocumentID: documentID,
			PageNumber: page.PageNumber,
			ChunkIndex: i,
			Text:       text,
			StartChar:  start,
			EndChar:    end,
		}
	}

	// Batch embedding bounds the number of backend round trips.
	for start := 0; start < len(passages); start += s.batchSize {
		end := start + s.batchSize
		if end > len(passages) {
			end = len(passages)
		}
		texts := make([]string, end-start)
		for i := start; i < end; i++ {
			texts[i-start] = passages[i].Text
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			logger.Warn("Page %d: embedding failed: %v", page.PageNumber, err)
			pr.Error = fmt.Sprintf("embed: %v", err)
			return pr
		}
		if len(vectors) != len(texts) {
			pr.Error = fmt.Sprintf("embed: got %d vectors for %d texts", len(vectors), len(texts))
			return pr
		}
		for i := start; i < end; i++ {
			passages[i].Vector = vectors[i-start]
		}
	}

	inserted, err := s.store.Insert(ctx, passages)
	if err != nil {
		logger.Warn("Page %d: insert failed: %v", page.PageNumber, err)
		pr.Error = fmt.Sprintf("insert: %v", err)
		return pr
	}

	pr.PassagesCreated = inserted
	logger.Debug("Page %d: %d passages indexed", page.PageNumber, inserted)
	return pr
}

// Query embeds the text and returns passages above the similarity
// floor, ranked. "Nothing relevant" is an empty slice; an embedder or
// store failure is wrapped in domain.ErrRetrievalFailed so callers can
// tell the two apart.
func (s *EngineService) Query(
	ctx context.Context, ownerID, text string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	ownerID, err := domain.CanonicalID(ownerID)
	if err != nil {
		return nil, fmt.Errorf("owner id: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("query text: %w", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	opts = opts.Normalise()

	logger.Section("Query")
	logger.Debug("Owner %s: %q (top_k=%d, min_similarity=%.2f, documents=%d)",
		ownerID, text, opts.TopK, opts.MinSimilarity, len(opts.DocumentIDs))

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrRetrievalFailed, err)
	}

	hits, err := s.store.Search(ctx, vec, driven.SearchFilter{
		OwnerID:     ownerID,
		DocumentIDs: opts.DocumentIDs,
	}, opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %w", domain.ErrRetrievalFailed, err)
	}

	logger.Debug("Store returned %d candidates", len(hits))

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Similarity < opts.MinSimilarity {
			continue
		}
		hit.Rank = len(results) + 1
		results = append(results, hit)
	}

	logger.Info("Query matched %d passages above %.2f", len(results), opts.MinSimilarity)
	return results, nil
}

// GetContext composes Query with the context assembler. maxChars < 0
// selects the default budget; maxChars == 0 yields an empty block.
func (s *EngineService) GetContext(
	ctx context.Context, ownerID, text string, opts domain.SearchOptions, maxChars int,
) (domain.ContextBlock, error) {
	if maxChars < 0 {
		maxChars = domain.DefaultMaxContextChars
	}

	results, err := s.Query(ctx, ownerID, text, opts)
	if err != nil {
		return domain.ContextBlock{}, err
	}

	block := BuildContext(results, maxChars)
	logger.Debug("Context block: %d passages, %d chars", len(block.Passages), len(block.Render()))
	return block, nil
}

// SimilarPassages finds passages near the probe text within one
// document, excluding exact text matches. Used to surface "related
// sections" for a passage the reader is looking at.
func (s *EngineService) SimilarPassages(
	ctx context.Context, ownerID, documentID, text string, topK int,
) ([]domain.SearchResult, error) {
	ownerID, err := domain.CanonicalID(ownerID)
	if err != nil {
		return nil, fmt.Errorf("owner id: %w", err)
	}
	documentID, err = domain.CanonicalID(documentID)
	if err != nil {
		return nil, fmt.Errorf("document id: %w", err)
	}
	probe := strings.TrimSpace(text)
	if probe == "" {
		return nil, fmt.Errorf("probe text: %w", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if topK <= 0 {
		topK = 3
	}
	if topK > domain.MaxTopK {
		topK = domain.MaxTopK
	}

	vec, err := s.embedder.Embed(ctx, probe)
	if err != nil {
		return nil, fmt.Errorf("%w: embed probe: %w", domain.ErrRetrievalFailed, err)
	}

	// Ask for one extra so the probe's own passage can be excluded.
	hits, err := s.store.Search(ctx, vec, driven.SearchFilter{
		OwnerID:     ownerID,
		DocumentIDs: []string{documentID},
	}, topK+1)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %w", domain.ErrRetrievalFailed, err)
	}

	results := make([]domain.SearchResult, 0, topK)
	for _, hit := range hits {
		if strings.TrimSpace(hit.Passage.Text) == probe {
			continue
		}
		if hit.Similarity <= similarFloor {
			continue
		}
		hit.Rank = len(results) + 1
		results = append(results, hit)
		if len(results) == topK {
			break
		}
	}
	return results, nil
}

// RemoveDocument deletes every passage of the document.
func (s *EngineService) RemoveDocument(ctx context.Context, documentID string) (int, error) {
	documentID, err := domain.CanonicalID(documentID)
	if err != nil {
		return 0, fmt.Errorf("document id: %w", err)
	}

	deleted, err := s.store.DeleteByDocument(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("delete document %s: %w", documentID, err)
	}
	logger.Info("Removed %d passages for document %s", deleted, documentID)
	return deleted, nil
}

// Stats reports store size and dimension.
func (s *EngineService) Stats(ctx context.Context) (domain.StoreStats, error) {
	return s.store.Stats(ctx)
}
