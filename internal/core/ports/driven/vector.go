package driven

import (
	"context"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// VectorIndex stores narrative vectors and answers similarity queries.
// Implementations create the index with the configured metric and
// dimension if it does not exist yet.
type VectorIndex interface {
	// Stats reports the populated vector count.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Upsert writes entries, replacing any with the same ID.
	Upsert(ctx context.Context, entries []domain.VectorEntry) error

	// Query returns the k nearest entries, ranked by descending similarity.
	Query(ctx context.Context, vector []float32, k int) ([]domain.SearchResult, error)

	// Close releases resources.
	Close() error
}
