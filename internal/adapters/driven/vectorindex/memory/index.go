// Package memory provides an in-memory implementation of driven.VectorIndex.
// It is used for tests and for runs that do not need to persist the index.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/vectorindex/similarity"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a brute-force cosine index guarded by a RWMutex.
// Entries keep their first insertion position; upserting an existing
// ID replaces it in place.
type Index struct {
	mu        sync.RWMutex
	name      string
	dimension int
	ids       []string
	vectors   [][]float32
	metadata  []domain.Metadata
	positions map[string]int
}

// New creates an empty index.
func New(name string, dimension int) *Index {
	return &Index{
		name:      name,
		dimension: dimension,
		positions: make(map[string]int),
	}
}

// Stats reports the populated vector count.
func (i *Index) Stats(_ context.Context) (domain.IndexStats, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return domain.IndexStats{
		Name:        i.name,
		Dimension:   i.dimension,
		Metric:      domain.DefaultMetric,
		VectorCount: len(i.ids),
	}, nil
}

// Upsert writes entries, replacing any with the same ID.
func (i *Index) Upsert(_ context.Context, entries []domain.VectorEntry) error {
	for _, e := range entries {
		if len(e.Values) != i.dimension {
			return fmt.Errorf("memory: %s: %w: got %d, want %d", e.ID, domain.ErrDimensionMismatch, len(e.Values), i.dimension)
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for _, e := range entries {
		values := append([]float32(nil), e.Values...)
		meta := make(domain.Metadata, len(e.Metadata))
		for k, v := range e.Metadata {
			meta[k] = v
		}
		if pos, ok := i.positions[e.ID]; ok {
			i.vectors[pos] = values
			i.metadata[pos] = meta
			continue
		}
		i.positions[e.ID] = len(i.ids)
		i.ids = append(i.ids, e.ID)
		i.vectors = append(i.vectors, values)
		i.metadata = append(i.metadata, meta)
	}
	return nil
}

// Query returns the k nearest entries.
func (i *Index) Query(_ context.Context, vector []float32, k int) ([]domain.SearchResult, error) {
	if len(vector) != i.dimension {
		return nil, fmt.Errorf("memory: query: %w: got %d, want %d", domain.ErrDimensionMismatch, len(vector), i.dimension)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	ranked := similarity.TopK(vector, i.vectors, k)
	results := make([]domain.SearchResult, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, domain.SearchResult{
			ID:       i.ids[r.Pos],
			Score:    r.Score,
			Metadata: i.metadata[r.Pos],
		})
	}
	return results, nil
}

// Close releases resources.
func (i *Index) Close() error {
	return nil
}
