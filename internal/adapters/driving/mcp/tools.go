package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// SearchInput is the input schema for the search_narratives tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"a description of the kind of wildfire event to find"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of narratives to return (default 3)"`
}

// SearchOutput is the output schema for the search_narratives tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single matched narrative.
type SearchResultOutput struct {
	ID         string  `json:"id"`
	Score      float64 `json:"score"`
	Severity   string  `json:"severity"`
	Disruption string  `json:"disruption"`
	Acreage    string  `json:"acreage,omitempty"`
	SourceFile string  `json:"source_file,omitempty"`
	Narrative  string  `json:"narrative"`
}

// StatsInput is the (empty) input schema for the index_stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the index_stats tool.
type StatsOutput struct {
	Name        string `json:"name"`
	Dimension   int    `json:"dimension"`
	Metric      string `json:"metric,omitempty"`
	VectorCount int    `json:"vector_count"`
	Populated   bool   `json:"populated"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_narratives",
		Description: "Find past wildfire events whose recovery narrative resembles the query",
	}, s.handleSearch)

	if s.ports.Index != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "index_stats",
			Description: "Report the narrative index name, dimension and vector count",
		}, s.handleStats)
	}
}

func (s *Server) limit(requested int) int {
	if requested > 0 {
		return requested
	}
	if s.ports.DefaultLimit > 0 {
		return s.ports.DefaultLimit
	}
	return domain.DefaultSearchLimit
}

// handleSearch handles the search_narratives tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{Limit: s.limit(input.Limit)}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			ID:         results[i].ID,
			Score:      results[i].Score,
			Severity:   results[i].Severity().String(),
			Disruption: results[i].Disruption().String(),
			Acreage:    results[i].Metadata[domain.MetaAcreage],
			SourceFile: results[i].SourceFile(),
			Narrative:  results[i].Narrative(),
		}
	}

	return nil, output, nil
}

// handleStats handles the index_stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.indexStats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}
	return nil, stats, nil
}

func (s *Server) indexStats(ctx context.Context) (StatsOutput, error) {
	if s.ports.Index == nil {
		return StatsOutput{}, ErrMissingIndexService
	}
	stats, err := s.ports.Index.Stats(ctx)
	if err != nil {
		return StatsOutput{}, err
	}
	return StatsOutput{
		Name:        stats.Name,
		Dimension:   stats.Dimension,
		Metric:      stats.Metric,
		VectorCount: stats.VectorCount,
		Populated:   stats.Populated(),
	}, nil
}
