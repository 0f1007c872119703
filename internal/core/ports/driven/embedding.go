package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The dimension is a fixed constant for the life of an index; swapping
// embedding models means re-indexing every passage, so the vector store
// refuses to open against a different dimension.
//
// Implementations may include:
//   - Ollama (all-minilm, nomic-embed-text)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Local models via OpenAI-compatible inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// Failures are wrapped in domain.ErrEmbeddingFailed; the engine
	// never retries on its own.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. It exists
	// purely for throughput during ingestion: the output equals
	// element-wise Embed calls on the same inputs.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the backend is reachable with a lightweight
	// request, so misconfiguration surfaces at startup rather than on
	// the first ingest.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
