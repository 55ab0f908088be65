package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

const (
	uriScheme = "wildfire://"

	// statsURI exposes the index stats as a readable resource.
	statsURI = uriScheme + "index/stats"

	// examplesURI lists example queries for clients that want prompts.
	examplesURI = uriScheme + "examples"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         examplesURI,
		Name:        "example-queries",
		Description: "Example narrative search queries",
		MIMEType:    "application/json",
	}, s.handleExamplesResource)

	if s.ports.Index != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         statsURI,
			Name:        "index-stats",
			Description: "Current state of the narrative vector index",
			MIMEType:    "application/json",
		}, s.handleStatsResource)
	}
}

func (s *Server) handleExamplesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, domain.ExampleQueries)
}

func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.indexStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading index stats: %w", err)
	}
	return jsonResource(req.Params.URI, stats)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
