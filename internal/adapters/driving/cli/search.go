package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/repl"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// Output formats for search.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed narratives",
	Long: `Embeds the query and returns the closest wildfire narratives from the
index, ranked by similarity.

Examples:
  wildfire search "fires needing emergency housing and shelter"
  wildfire search -k 10 --format json "small contained fires"`,
	Args:        cobra.ExactArgs(1),
	RunE:        runSearch,
	Annotations: needsServices(false),
}

func init() {
	searchCmd.Flags().IntP("top-k", "k", 0, "Number of results (default search.top_k)")
	searchCmd.Flags().StringP("format", "f", formatText, "Output format: text, json or yaml")
	rootCmd.AddCommand(searchCmd)
}

// searchHit is the structured form of a result.
type searchHit struct {
	Rank       int     `json:"rank" yaml:"rank"`
	ID         string  `json:"id" yaml:"id"`
	Score      float64 `json:"score" yaml:"score"`
	Severity   string  `json:"severity" yaml:"severity"`
	Disruption string  `json:"disruption" yaml:"disruption"`
	Acreage    string  `json:"acreage,omitempty" yaml:"acreage,omitempty"`
	SourceFile string  `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	Narrative  string  `json:"narrative" yaml:"narrative"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("top-k")
	if err != nil {
		return err
	}
	if limit <= 0 {
		limit = appSettings.TopK
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	switch format {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}

	results, err := services.Search.Search(cmd.Context(), args[0], domain.SearchOptions{Limit: limit})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	switch format {
	case formatJSON:
		return outputSearchJSON(cmd, results)
	case formatYAML:
		return outputSearchYAML(cmd, results)
	default:
		repl.PrintResults(cmd.OutOrStdout(), results)
		return nil
	}
}

func toHits(results []domain.SearchResult) []searchHit {
	hits := make([]searchHit, len(results))
	for i, r := range results {
		hits[i] = searchHit{
			Rank:       i + 1,
			ID:         r.ID,
			Score:      r.Score,
			Severity:   r.Severity().String(),
			Disruption: r.Disruption().String(),
			Acreage:    r.Metadata[domain.MetaAcreage],
			SourceFile: r.SourceFile(),
			Narrative:  r.Narrative(),
		}
	}
	return hits
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(toHits(results), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func outputSearchYAML(cmd *cobra.Command, results []domain.SearchResult) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(toHits(results)); err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return enc.Close()
}
