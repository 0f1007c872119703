package domain

// AIProvider identifies an embedding backend.
type AIProvider string

// Supported providers.
const (
	ProviderOllama AIProvider = "ollama"
	ProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case ProviderOllama, ProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if the provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == ProviderOpenAI
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or OpenAI-compatible
	// servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the embedding vector size. Fixed for the life of an
	// index; changing it means re-indexing.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings controls how page text becomes passages.
type ChunkingSettings struct {
	// TargetSize is the upper bound on chunk length in characters.
	TargetSize int

	// Overlap is the number of characters shared between adjacent
	// chunks.
	Overlap int

	// MinLength drops trimmed chunks shorter than this.
	MinLength int
}

// RetrievalSettings holds query-time defaults.
type RetrievalSettings struct {
	// TopK is the default result count.
	TopK int

	// MinSimilarity is the default similarity floor.
	MinSimilarity float64

	// MaxContextChars bounds the assembled context string.
	MaxContextChars int
}

// IngestSettings configures the background ingestion pool.
type IngestSettings struct {
	// Workers is the number of concurrent ingestion workers.
	Workers int

	// QueueDepth bounds the number of jobs waiting for a worker.
	QueueDepth int

	// EmbedBatchSize is the number of chunks embedded per backend
	// round trip.
	EmbedBatchSize int
}

// StorageSettings selects and locates the vector store.
type StorageSettings struct {
	// Backend is "sqlite" (durable, default) or "memory".
	Backend string

	// DataDir holds the index files. Empty means the default under the
	// user's home directory.
	DataDir string
}

// Settings is the full engine configuration.
type Settings struct {
	Embedding EmbeddingSettings
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Ingest    IngestSettings
	Storage   StorageSettings
}

// DefaultSettings mirrors the documented defaults: a local Ollama
// all-minilm embedder at 384 dimensions over a SQLite index.
func DefaultSettings() Settings {
	return Settings{
		Embedding: EmbeddingSettings{
			Provider:   ProviderOllama,
			Model:      "all-minilm",
			Dimensions: 384,
		},
		Chunking: ChunkingSettings{
			TargetSize: 500,
			Overlap:    50,
			MinLength:  20,
		},
		Retrieval: RetrievalSettings{
			TopK:            DefaultTopK,
			MinSimilarity:   DefaultMinSimilarity,
			MaxContextChars: DefaultMaxContextChars,
		},
		Ingest: IngestSettings{
			Workers:        2,
			QueueDepth:     8,
			EmbedBatchSize: 32,
		},
		Storage: StorageSettings{
			Backend: "sqlite",
		},
	}
}
