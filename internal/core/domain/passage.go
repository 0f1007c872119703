package domain

import "fmt"

// Passage is the atomic retrievable unit: a chunk of source text together
// with its embedding and scoping metadata. Passages are immutable once
// created; re-ingesting a document produces the same IDs and replaces the
// stored rows rather than duplicating them.
type Passage struct {
	// ID is deterministic, derived from DocumentID, PageNumber and
	// ChunkIndex. See PassageID.
	ID string

	// OwnerID scopes the passage to a single owner. A passage is never
	// visible to a search issued for a different owner.
	OwnerID string

	// DocumentID links to the source document. The engine treats it as
	// an opaque scoping key and owns no document metadata.
	DocumentID string

	// PageNumber is the 1-based page the text came from.
	PageNumber int

	// ChunkIndex is the 0-based position of the chunk within its page.
	ChunkIndex int

	// Text is the chunk content. Non-empty after trimming.
	Text string

	// StartChar and EndChar are best-effort offsets of Text within the
	// source page. StartChar is clamped to 0 when the chunk could not be
	// located verbatim.
	StartChar int
	EndChar   int

	// Vector is the embedding, always of the index's configured
	// dimension.
	Vector []float32
}

// PassageID builds the deterministic passage identifier for a chunk.
// The triple (documentID, pageNumber, chunkIndex) is unique per index,
// which makes ingestion idempotent: the same input always maps to the
// same IDs.
func PassageID(documentID string, pageNumber, chunkIndex int) string {
	return fmt.Sprintf("%s:p%d:c%d", documentID, pageNumber, chunkIndex)
}

// Page is raw per-page text handed to the engine for ingestion.
// The engine does not extract text itself; extraction adapters or the
// surrounding service produce pages.
type Page struct {
	// PageNumber is 1-based.
	PageNumber int

	// Text is the raw extracted text for the page. May be empty, in
	// which case the page is skipped rather than failed.
	Text string
}

// SearchResult is a single ranked similarity hit.
type SearchResult struct {
	// Passage is the matched passage. Vector is populated by stores
	// only when cheap to do so; callers must not rely on it.
	Passage Passage

	// Similarity is the cosine similarity between query and passage in
	// [-1, 1]. Never a raw distance.
	Similarity float64

	// Rank is the 1-based position in the result sequence.
	Rank int
}

// StoreStats summarises a vector store.
type StoreStats struct {
	// TotalPassages is the number of passages currently stored.
	TotalPassages int

	// Documents is the number of distinct documents with at least one
	// passage.
	Documents int

	// Dimension is the embedding dimension the index was created with.
	Dimension int
}
