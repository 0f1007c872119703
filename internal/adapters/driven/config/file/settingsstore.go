package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/atheneum-labs/passage/internal/core/domain"
	"github.com/atheneum-labs/passage/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore is a TOML-file implementation of driven.SettingsStore.
// A missing file yields the defaults; Save creates it.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// fileSettings is the on-disk TOML schema. Zero values mean "unset":
// Load fills them from the defaults, so a hand-edited file only needs
// the keys the user actually changed.
type fileSettings struct {
	Embedding struct {
		Provider   string `toml:"provider,omitempty"`
		Model      string `toml:"model,omitempty"`
		BaseURL    string `toml:"base_url,omitempty"`
		APIKey     string `toml:"api_key,omitempty"`
		Dimensions int    `toml:"dimensions,omitempty"`
	} `toml:"embedding"`
	Chunking struct {
		TargetSize int `toml:"target_size,omitempty"`
		Overlap    int `toml:"overlap,omitempty"`
		MinLength  int `toml:"min_length,omitempty"`
	} `toml:"chunking"`
	Retrieval struct {
		TopK            int     `toml:"top_k,omitempty"`
		MinSimilarity   float64 `toml:"min_similarity,omitempty"`
		MaxContextChars int     `toml:"max_context_chars,omitempty"`
	} `toml:"retrieval"`
	Ingest struct {
		Workers        int `toml:"workers,omitempty"`
		QueueDepth     int `toml:"queue_depth,omitempty"`
		EmbedBatchSize int `toml:"embed_batch_size,omitempty"`
	} `toml:"ingest"`
	Storage struct {
		Backend string `toml:"backend,omitempty"`
		DataDir string `toml:"data_dir,omitempty"`
	} `toml:"storage"`
}

// NewSettingsStore creates a TOML settings store. If configDir is
// empty, defaults to ~/.passage/config.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".passage")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads the settings file and applies defaults for unset keys.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	var fs fileSettings
	if err := toml.Unmarshal(data, &fs); err != nil {
		return domain.Settings{}, fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	applyFile(&settings, fs)
	return settings, nil
}

// Save writes the settings to the TOML file.
func (s *SettingsStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fs fileSettings
	fs.Embedding.Provider = string(settings.Embedding.Provider)
	fs.Embedding.Model = settings.Embedding.Model
	fs.Embedding.BaseURL = settings.Embedding.BaseURL
	fs.Embedding.APIKey = settings.Embedding.APIKey
	fs.Embedding.Dimensions = settings.Embedding.Dimensions
	fs.Chunking.TargetSize = settings.Chunking.TargetSize
	fs.Chunking.Overlap = settings.Chunking.Overlap
	fs.Chunking.MinLength = settings.Chunking.MinLength
	fs.Retrieval.TopK = settings.Retrieval.TopK
	fs.Retrieval.MinSimilarity = settings.Retrieval.MinSimilarity
	fs.Retrieval.MaxContextChars = settings.Retrieval.MaxContextChars
	fs.Ingest.Workers = settings.Ingest.Workers
	fs.Ingest.QueueDepth = settings.Ingest.QueueDepth
	fs.Ingest.EmbedBatchSize = settings.Ingest.EmbedBatchSize
	fs.Storage.Backend = settings.Storage.Backend
	fs.Storage.DataDir = settings.Storage.DataDir

	data, err := toml.Marshal(fs)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Path returns the settings file location.
func (s *SettingsStore) Path() string {
	return s.filePath
}

// applyFile overrides defaults with every key the file sets.
func applyFile(settings *domain.Settings, fs fileSettings) {
	if fs.Embedding.Provider != "" {
		settings.Embedding.Provider = domain.AIProvider(fs.Embedding.Provider)
	}
	if fs.Embedding.Model != "" {
		settings.Embedding.Model = fs.Embedding.Model
	}
	if fs.Embedding.BaseURL != "" {
		settings.Embedding.BaseURL = fs.Embedding.BaseURL
	}
	if fs.Embedding.APIKey != "" {
		settings.Embedding.APIKey = fs.Embedding.APIKey
	}
	if fs.Embedding.Dimensions > 0 {
		settings.Embedding.Dimensions = fs.Embedding.Dimensions
	}
	if fs.Chunking.TargetSize > 0 {
		settings.Chunking.TargetSize = fs.Chunking.TargetSize
	}
	if fs.Chunking.Overlap > 0 {
		settings.Chunking.Overlap = fs.Chunking.Overlap
	}
	if fs.Chunking.MinLength > 0 {
		settings.Chunking.MinLength = fs.Chunking.MinLength
	}
	if fs.Retrieval.TopK > 0 {
		settings.Retrieval.TopK = fs.Retrieval.TopK
	}
	if fs.Retrieval.MinSimilarity > 0 {
		settings.Retrieval.MinSimilarity = fs.Retrieval.MinSimilarity
	}
	if fs.Retrieval.MaxContextChars > 0 {
		settings.Retrieval.MaxContextChars = fs.Retrieval.MaxContextChars
	}
	if fs.Ingest.Workers > 0 {
		settings.Ingest.Workers = fs.Ingest.Workers
	}
	if fs.Ingest.QueueDepth > 0 {
		settings.Ingest.QueueDepth = fs.Ingest.QueueDepth
	}
	if fs.Ingest.EmbedBatchSize > 0 {
		settings.Ingest.EmbedBatchSize = fs.Ingest.EmbedBatchSize
	}
	if fs.Storage.Backend != "" {
		settings.Storage.Backend = fs.Storage.Backend
	}
	if fs.Storage.DataDir != "" {
		settings.Storage.DataDir = fs.Storage.DataDir
	}
}
