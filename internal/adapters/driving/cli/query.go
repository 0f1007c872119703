package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atheneum-labs/passage/internal/core/domain"
)

var (
	queryOwner         string
	queryDocuments     []string
	queryLimit         int
	queryMinSimilarity float64
	queryJSON          bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Find passages relevant to a question",
	Long: `Embeds the question and returns the most similar indexed passages,
ranked by cosine similarity. Passages below the similarity floor are
filtered out; an empty result means nothing relevant is indexed.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryOwner, "owner", "local", "owner scope to search")
	queryCmd.Flags().StringSliceVar(&queryDocuments, "documents", nil, "restrict the search to these document IDs")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", domain.DefaultTopK, "maximum number of results")
	queryCmd.Flags().Float64Var(&queryMinSimilarity, "min-similarity", -1, "similarity floor between 0 and 1")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	// Flags beat the configured retrieval defaults.
	opts := domain.SearchOptions{
		TopK:        retrievalSettings.TopK,
		DocumentIDs: queryDocuments,
	}
	if cmd.Flags().Changed("limit") {
		opts.TopK = queryLimit
	}
	if cmd.Flags().Changed("min-similarity") {
		if queryMinSimilarity >= 0 {
			opts.MinSimilarity = queryMinSimilarity
			opts.HasMinSimilarity = true
		}
	} else {
		opts.MinSimilarity = retrievalSettings.MinSimilarity
		opts.HasMinSimilarity = true
	}

	results, err := engineService.Query(cmd.Context(), queryOwner, args[0], opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputResultsJSON(cmd, results)
	}
	outputResultsText(cmd, results)
	return nil
}

func outputResultsJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	type resultRow struct {
		PassageID  string  `json:"passage_id"`
		DocumentID string  `json:"document_id"`
		PageNumber int     `json:"page_number"`
		Text       string  `json:"text"`
		Similarity float64 `json:"similarity"`
		Rank       int     `json:"rank"`
	}

	rows := make([]resultRow, len(results))
	for i := range results {
		rows[i] = resultRow{
			PassageID:  results[i].Passage.ID,
			DocumentID: results[i].Passage.DocumentID,
			PageNumber: results[i].Passage.PageNumber,
			Text:       results[i].Passage.Text,
			Similarity: results[i].Similarity,
			Rank:       results[i].Rank,
		}
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultsText(cmd *cobra.Command, results []domain.SearchResult) {
	if len(results) == 0 {
		cmd.Println("No relevant passages found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] %s, page %d (%.2f)\n",
			results[i].Rank, results[i].Passage.DocumentID,
			results[i].Passage.PageNumber, results[i].Similarity)
		cmd.Printf("      %s\n", results[i].Passage.Text)
		cmd.Println()
	}
}
