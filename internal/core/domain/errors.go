package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
//
// "No results" is never an error at any layer: a blank page producing
// zero chunks, a search matching zero passages and an empty context
// block are all valid outcomes surfaced as empty collections.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, including
	// empty owner or document identifiers.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Nothing can be indexed or searched without one.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrEmbeddingFailed indicates the embedding backend was reachable
	// but the request failed, or the backend could not be reached at
	// all. The engine does not retry; callers decide retry policy.
	ErrEmbeddingFailed = errors.New("embedding request failed")

	// ErrDimensionMismatch indicates the embedder and the vector index
	// disagree on the embedding dimension. This is a fatal
	// configuration error: changing embedding models requires
	// re-indexing every passage, never silent tolerance.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrRetrievalFailed wraps an embedder or store failure during a
	// query, so callers can distinguish "nothing relevant" from
	// "search subsystem down".
	ErrRetrievalFailed = errors.New("retrieval failed")

	// ErrStoreClosed indicates an operation on a closed vector store.
	ErrStoreClosed = errors.New("vector store closed")

	// ErrIngestorStopped indicates a submission to an ingestor that is
	// not running.
	ErrIngestorStopped = errors.New("ingestor not running")
)
