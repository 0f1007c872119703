package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	stats, err := engineService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	cmd.Println("Index:")
	cmd.Printf("  Passages:   %d\n", stats.TotalPassages)
	cmd.Printf("  Documents:  %d\n", stats.Documents)
	cmd.Printf("  Dimension:  %d\n", stats.Dimension)
	return nil
}
