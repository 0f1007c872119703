package driven

import (
	"context"

	"github.com/atheneum-labs/passage/internal/core/domain"
)

// SearchFilter scopes a similarity search. OwnerID is mandatory: a
// passage stored under one owner is never visible to another.
type SearchFilter struct {
	// OwnerID restricts results to a single owner's passages.
	OwnerID string

	// DocumentIDs, when non-empty, further restricts to the listed
	// documents. An allow-list naming unindexed documents matches
	// nothing, which is a valid empty outcome.
	DocumentIDs []string
}

// VectorStore is the durable, filterable collection of passages.
// The store is a generic exact-search primitive: similarity thresholds
// are the retriever's concern, not baked in here.
//
// Implementations must serialise writes internally so that a concurrent
// search never observes a partially inserted document, while searches
// run in parallel with each other.
type VectorStore interface {
	// Insert stores the passages and returns the number written.
	// Idempotent per ID: an existing ID is replaced, last write wins.
	// A vector of the wrong dimension fails with
	// domain.ErrDimensionMismatch and leaves the store unchanged.
	Insert(ctx context.Context, passages []domain.Passage) (int, error)

	// Search returns the k nearest passages under the filter, ordered
	// by similarity descending with ties broken by ascending
	// (document_id, page_number, chunk_index). An empty store, or a
	// filter matching nothing, returns an empty slice and no error.
	Search(ctx context.Context, query []float32, filter SearchFilter, k int) ([]domain.SearchResult, error)

	// DeleteByDocument removes every passage of the document and
	// returns the number deleted.
	DeleteByDocument(ctx context.Context, documentID string) (int, error)

	// Stats reports the store size and configured dimension.
	Stats(ctx context.Context) (domain.StoreStats, error)

	// Close releases resources.
	Close() error
}
