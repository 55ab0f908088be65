package mcp

import (
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server uses.
type Ports struct {
	// Search answers narrative queries.
	Search driving.SearchService

	// Index reports index state. Optional.
	Index driving.IndexService

	// DefaultLimit is used when a tool call gives no limit.
	DefaultLimit int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
