package driving

import (
	"context"

	"github.com/atheneum-labs/passage/internal/core/domain"
)

// Engine is the passage indexing and retrieval engine: it turns raw
// page text into searchable passages and answers similarity queries
// over them. It is stateless between calls; the vector store is the
// only shared mutable resource behind it.
type Engine interface {
	// Ingest chunks, embeds and stores the pages under the owner and
	// document. Page failures are isolated: one failing page never
	// aborts its siblings, and the report carries per-page outcomes.
	// Re-ingesting a document is idempotent.
	Ingest(ctx context.Context, ownerID, documentID string, pages []domain.Page) (*domain.IngestReport, error)

	// Query embeds the text and returns passages above the similarity
	// floor, ranked. Zero matches is an empty slice, not an error;
	// an embedder or store failure is domain.ErrRetrievalFailed.
	Query(ctx context.Context, ownerID, text string, opts domain.SearchOptions) ([]domain.SearchResult, error)

	// GetContext runs Query and packs the results into a context block
	// bounded by maxChars. An empty block is a valid outcome that
	// callers handle by answering without document context.
	GetContext(ctx context.Context, ownerID, text string, opts domain.SearchOptions, maxChars int) (domain.ContextBlock, error)

	// SimilarPassages finds passages near the probe text within one
	// document, excluding exact text matches.
	SimilarPassages(ctx context.Context, ownerID, documentID, text string, topK int) ([]domain.SearchResult, error)

	// RemoveDocument deletes every passage of the document and returns
	// the count removed.
	RemoveDocument(ctx context.Context, documentID string) (int, error)

	// Stats reports store size and dimension.
	Stats(ctx context.Context) (domain.StoreStats, error)
}
