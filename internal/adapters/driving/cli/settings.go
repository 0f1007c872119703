package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atheneum-labs/passage/internal/adapters/driven/config/file"
	"github.com/atheneum-labs/passage/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or initialise the configuration",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runSettingsShow,
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	RunE:  runSettingsInit,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsInitCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	store, err := file.NewSettingsStore(configDir)
	if err != nil {
		return err
	}
	settings, err := store.Load()
	if err != nil {
		return err
	}

	cmd.Printf("Config file: %s\n\n", store.Path())
	cmd.Printf("  Embedding:  %s / %s (%d dimensions)\n",
		settings.Embedding.Provider, settings.Embedding.Model, settings.Embedding.Dimensions)
	cmd.Printf("  Chunking:   %d chars, %d overlap, %d minimum\n",
		settings.Chunking.TargetSize, settings.Chunking.Overlap, settings.Chunking.MinLength)
	cmd.Printf("  Retrieval:  top %d above %.2f, %d context chars\n",
		settings.Retrieval.TopK, settings.Retrieval.MinSimilarity, settings.Retrieval.MaxContextChars)
	cmd.Printf("  Ingest:     %d workers, queue %d, batch %d\n",
		settings.Ingest.Workers, settings.Ingest.QueueDepth, settings.Ingest.EmbedBatchSize)
	cmd.Printf("  Storage:    %s", settings.Storage.Backend)
	if settings.Storage.DataDir != "" {
		cmd.Printf(" (%s)", settings.Storage.DataDir)
	}
	cmd.Println()
	return nil
}

func runSettingsInit(cmd *cobra.Command, _ []string) error {
	store, err := file.NewSettingsStore(configDir)
	if err != nil {
		return err
	}

	if err := store.Save(domain.DefaultSettings()); err != nil {
		return fmt.Errorf("writing defaults: %w", err)
	}

	cmd.Printf("Wrote defaults to %s\n", store.Path())
	return nil
}
