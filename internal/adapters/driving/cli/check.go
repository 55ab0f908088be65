package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/repl"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// samplePreviewRunes is how much of each sample narrative check prints.
const samplePreviewRunes = 200

// errChecksFailed is returned when any check warns or fails.
var errChecksFailed = errors.New("index checks failed")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Smoke-test the vector index",
	Long: `Runs a fixed set of queries against the index and verifies it is
populated, answers searches, and ranks severity sensibly.

Exits non-zero if any check fails or warns.`,
	Args:        cobra.NoArgs,
	RunE:        runCheck,
	Annotations: needsServices(false),
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	report, err := services.Check.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	printCheckReport(cmd, report)
	if !report.OK() {
		return errChecksFailed
	}
	return nil
}

func printCheckReport(cmd *cobra.Command, report *domain.CheckReport) {
	out := cmd.OutOrStdout()
	for i, result := range report.Results {
		fmt.Fprintf(out, "\nTEST %d: %s\n", i+1, result.Name)
		for j, s := range result.Samples {
			fmt.Fprintf(out, "\n  [%d] Score: %.3f | Severity: %s | Disruption: %s\n",
				j+1, s.Score, s.Severity(), s.Disruption())
			fmt.Fprintf(out, "  %s\n", repl.Preview(s.Narrative(), samplePreviewRunes))
		}
		if result.Detail != "" {
			fmt.Fprintf(out, "  %s: %s\n", result.Status, result.Detail)
		} else {
			fmt.Fprintf(out, "  %s\n", result.Status)
		}
	}

	fmt.Fprintf(out, "\n%s\n", banner)
	fmt.Fprintf(out, "Results: %d passed, %d failed\n", report.Passed(), report.Failed())
	if report.OK() {
		fmt.Fprintln(out, "All tests passed. Index is ready to search.")
	} else {
		fmt.Fprintln(out, "Some tests failed. Check output above for details.")
	}
}
