package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atheneum-labs/passage/internal/core/domain"
)

var (
	contextOwner     string
	contextDocuments []string
	contextLimit     int
	contextMaxChars  int
)

var contextCmd = &cobra.Command{
	Use:   "context [text]",
	Short: "Assemble a context block for a question",
	Long: `Retrieves the passages most relevant to the question and packs them
into a single block, each prefixed with its page number, within the
character budget. The block is ready to paste into a prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runContext,
}

func init() {
	contextCmd.Flags().StringVar(&contextOwner, "owner", "local", "owner scope to search")
	contextCmd.Flags().StringSliceVar(&contextDocuments, "documents", nil, "restrict retrieval to these document IDs")
	contextCmd.Flags().IntVarP(&contextLimit, "limit", "n", domain.DefaultTopK, "maximum number of passages to consider")
	contextCmd.Flags().IntVar(&contextMaxChars, "max-chars", domain.DefaultMaxContextChars, "character budget for the block")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	// Flags beat the configured retrieval defaults.
	opts := domain.SearchOptions{
		TopK:        retrievalSettings.TopK,
		DocumentIDs: contextDocuments,
	}
	if cmd.Flags().Changed("limit") {
		opts.TopK = contextLimit
	}
	maxChars := retrievalSettings.MaxContextChars
	if cmd.Flags().Changed("max-chars") {
		maxChars = contextMaxChars
	}

	block, err := engineService.GetContext(cmd.Context(), contextOwner, args[0], opts, maxChars)
	if err != nil {
		return fmt.Errorf("assembling context: %w", err)
	}

	if block.Empty() {
		cmd.Println("No relevant passages found.")
		return nil
	}

	cmd.Println(block.Render())
	return nil
}
