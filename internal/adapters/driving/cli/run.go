package cli

import (
	"github.com/spf13/cobra"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/repl"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline, then search interactively",
	Long: `Loads the data directory, classifies every event, builds the index and
opens the interactive search prompt. This is also what wildfire does when
run without a subcommand.`,
	Args:        cobra.NoArgs,
	RunE:        runRun,
	Annotations: needsServices(true),
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, runCmd} {
		cmd.Flags().Bool("no-interactive", false, "Stop after indexing instead of opening the search prompt")
	}
	addBuildFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

// runRun is the full pipeline followed by the interactive prompt.
func runRun(cmd *cobra.Command, _ []string) error {
	out := newStagePrinter(cmd.OutOrStdout())
	if _, err := runPipeline(cmd, out); err != nil {
		return err
	}

	noInteractive, err := cmd.Flags().GetBool("no-interactive")
	if err != nil {
		return err
	}
	if noInteractive {
		return nil
	}

	out.stage(5, "Interactive search")
	return repl.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), services.Search, appSettings.TopK)
}
