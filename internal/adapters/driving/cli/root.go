// Package cli implements the passage command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atheneum-labs/passage/internal/adapters/driven/config/file"
	ollamaembed "github.com/atheneum-labs/passage/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/atheneum-labs/passage/internal/adapters/driven/embedding/openai"
	"github.com/atheneum-labs/passage/internal/adapters/driven/storage/memory"
	"github.com/atheneum-labs/passage/internal/adapters/driven/storage/sqlite"
	"github.com/atheneum-labs/passage/internal/chunker"
	"github.com/atheneum-labs/passage/internal/core/domain"
	"github.com/atheneum-labs/passage/internal/core/ports/driven"
	"github.com/atheneum-labs/passage/internal/core/ports/driving"
	"github.com/atheneum-labs/passage/internal/core/services"
	"github.com/atheneum-labs/passage/internal/logger"
)

// version is set via ldflags at build time.
var version = "dev"

// Global flags.
var (
	verbose   bool
	dataDir   string
	configDir string
)

// Services wired by ensureServices. Tests inject fakes directly.
var (
	engineService   driving.Engine
	ingestorService driving.Ingestor
	closers         []func() error

	// retrievalSettings backs the query and context commands when their
	// flags are not given. ensureServices replaces it with the
	// configured values.
	retrievalSettings = domain.DefaultSettings().Retrieval
)

var rootCmd = &cobra.Command{
	Use:   "passage",
	Short: "Index documents and retrieve relevant passages",
	Long: `Passage indexes PDF and text documents as embedded passages and
retrieves the ones most relevant to a question, locally.

Documents are split into overlapping chunks, embedded (Ollama by
default, OpenAI optionally) and stored in a SQLite index. Queries
return ranked passages or a ready-to-use context block.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "index data directory (default ~/.passage/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.passage)")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// ensureServices wires the engine from settings on first use. Commands
// that touch the index call it; version and settings commands do not.
func ensureServices() error {
	if engineService != nil {
		return nil
	}

	store, err := file.NewSettingsStore(configDir)
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}
	settings, err := store.Load()
	if err != nil {
		return err
	}
	if dataDir != "" {
		settings.Storage.DataDir = dataDir
	}

	embedder, err := buildEmbedder(settings.Embedding)
	if err != nil {
		return err
	}

	var vectors driven.VectorStore
	var jobs driven.JobStore
	switch settings.Storage.Backend {
	case "memory":
		vectors = memory.NewVectorStore(embedder.Dimensions())
		jobs = memory.NewJobStore()
	default:
		st, err := sqlite.NewStore(settings.Storage.DataDir, embedder.ModelName(), embedder.Dimensions())
		if err != nil {
			return fmt.Errorf("opening index: %w", err)
		}
		closers = append(closers, st.Close)
		vectors = st.VectorStore()
		jobs = st.JobStore()
	}

	splitter := chunker.New(
		chunker.WithTargetSize(settings.Chunking.TargetSize),
		chunker.WithOverlap(settings.Chunking.Overlap),
		chunker.WithMinLength(settings.Chunking.MinLength),
	)

	engineService = services.NewEngineService(splitter, embedder, vectors, settings.Ingest.EmbedBatchSize)
	ingestorService = services.NewIngestPool(engineService, jobs,
		settings.Ingest.Workers, settings.Ingest.QueueDepth)
	retrievalSettings = settings.Retrieval
	closers = append(closers, embedder.Close)
	return nil
}

// buildEmbedder creates the embedding service for the configured
// provider.
func buildEmbedder(cfg domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case domain.ProviderOpenAI:
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     apiKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	case domain.ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q",
			domain.ErrEmbeddingUnavailable, cfg.Provider)
	}
}

func closeServices() {
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Warn("Closing: %v", err)
		}
	}
	closers = nil
}
