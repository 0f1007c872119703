package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	similarOwner string
	similarLimit int
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage indexed documents",
	Long:  `Remove documents from the index or explore passages within them.`,
}

var documentRemoveCmd = &cobra.Command{
	Use:   "remove [document-id]",
	Short: "Remove a document's passages from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentRemove,
}

var documentSimilarCmd = &cobra.Command{
	Use:   "similar [document-id] [text]",
	Short: "Find passages related to a text within one document",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentSimilar,
}

func init() {
	documentSimilarCmd.Flags().StringVar(&similarOwner, "owner", "local", "owner scope to search")
	documentSimilarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 3, "maximum number of passages")

	documentCmd.AddCommand(documentRemoveCmd)
	documentCmd.AddCommand(documentSimilarCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	deleted, err := engineService.RemoveDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("removing document: %w", err)
	}

	cmd.Printf("Removed %d passages for document %s.\n", deleted, args[0])
	return nil
}

func runDocumentSimilar(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	results, err := engineService.SimilarPassages(cmd.Context(), similarOwner, args[0], args[1], similarLimit)
	if err != nil {
		return fmt.Errorf("finding similar passages: %w", err)
	}

	if len(results) == 0 {
		cmd.Println("No related passages found.")
		return nil
	}

	cmd.Println("Related passages:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] page %d (%.2f)\n",
			results[i].Rank, results[i].Passage.PageNumber, results[i].Similarity)
		cmd.Printf("      %s\n", results[i].Passage.Text)
		cmd.Println()
	}
	return nil
}
