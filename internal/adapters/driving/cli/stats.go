package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:         "stats",
	Short:       "Show vector index statistics",
	Args:        cobra.NoArgs,
	RunE:        runStats,
	Annotations: needsServices(false),
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	stats, err := services.Index.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get index stats: %w", err)
	}

	out := newStagePrinter(cmd.OutOrStdout())
	out.printf("Index:      %s\n", stats.Name)
	out.printf("Backend:    %s\n", appSettings.VectorIndex.Backend.Description())
	out.printf("Embedding:  %s (%s)\n", services.Model, appSettings.Embedding.Provider.Description())
	out.printf("Dimension:  %d\n", stats.Dimension)
	if stats.Metric != "" {
		out.printf("Metric:     %s\n", stats.Metric)
	}
	out.printf("Vectors:    %d\n", stats.VectorCount)
	if !stats.Populated() {
		fmt.Fprintln(cmd.OutOrStdout(), "\nIndex is empty. Run: wildfire index")
	}
	return nil
}
