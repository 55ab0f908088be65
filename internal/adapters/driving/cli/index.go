package cli

import (
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Load, classify and index wildfire events",
	Long: `Runs the batch pipeline without the search prompt:

  1. Load every CSV/XLSX file in the data directory
  2. Extract features and classify severity and disruption
  3. Generate one narrative per event
  4. Embed unique narratives and upsert them into the vector index

An index that already holds vectors is left alone unless --rebuild is given.`,
	Args:        cobra.NoArgs,
	RunE:        runIndex,
	Annotations: needsServices(true),
}

func init() {
	addBuildFlags(indexCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	_, err := runPipeline(cmd, newStagePrinter(cmd.OutOrStdout()))
	return err
}
