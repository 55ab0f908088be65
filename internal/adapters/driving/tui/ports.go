// Package tui provides the full-screen narrative search interface.
// It is a driving adapter over the search and index ports.
package tui

import (
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Search answers queries. Required.
	Search driving.SearchService

	// Index feeds the status bar. Optional.
	Index driving.IndexService

	// Limit is the number of matches per query.
	Limit int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
