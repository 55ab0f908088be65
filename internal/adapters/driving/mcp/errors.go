// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants query the wildfire narrative index.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingIndexService is returned when index stats are requested without an index service.
var ErrMissingIndexService = errors.New("mcp: index service is not configured")
