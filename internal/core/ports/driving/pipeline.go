package driving

import (
	"context"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// PipelineService turns source files into narrated events.
type PipelineService interface {
	// Load reads the configured data directory.
	Load(ctx context.Context) (*domain.RecordSet, error)

	// Process extracts features, classifies and renders a narrative for
	// every record. It never fails: bad fields degrade to unknown.
	Process(records []domain.Record) []domain.Event
}

// IndexService builds the vector index from narrated events.
type IndexService interface {
	// Build embeds and upserts unique narratives. A populated index is
	// left untouched unless opts.Rebuild is set.
	Build(ctx context.Context, events []domain.Event, opts domain.BuildOptions) (*domain.BuildReport, error)

	// Stats reports the current index state.
	Stats(ctx context.Context) (domain.IndexStats, error)
}

// CheckService runs smoke checks against a built index.
type CheckService interface {
	Run(ctx context.Context) (*domain.CheckReport, error)
}
