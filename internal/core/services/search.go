package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driven"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driving"
	"github.com/sipneat/wildfire-narratives/internal/logger"
	"github.com/sipneat/wildfire-narratives/internal/observability"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers free-text queries against the vector index.
type SearchService struct {
	embedder     driven.EmbeddingService
	index        driven.VectorIndex
	defaultLimit int
	clock        clockwork.Clock
	metrics      *observability.Metrics
}

// NewSearchService creates a new search service. A non-positive
// defaultLimit falls back to domain.DefaultSearchLimit.
func NewSearchService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	defaultLimit int,
	metrics *observability.Metrics,
) *SearchService {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultSearchLimit
	}
	return &SearchService{
		embedder:     embedder,
		index:        index,
		defaultLimit: defaultLimit,
		clock:        clockwork.NewRealClock(),
		metrics:      metrics,
	}
}

// Search embeds the query in query mode and returns the index's nearest
// narratives in ranked order.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		s.metrics.SearchQueries.WithLabelValues("empty").Inc()
		return []domain.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	logger.Debug("Limit: %d", limit)

	start := s.clock.Now()
	defer func() {
		s.metrics.SearchDuration.Observe(s.clock.Since(start).Seconds())
	}()

	s.metrics.EmbeddingRequests.WithLabelValues("query").Inc()
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		s.metrics.SearchQueries.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.index.Query(ctx, vector, limit)
	if err != nil {
		s.metrics.SearchQueries.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("query index: %w", err)
	}

	s.metrics.SearchQueries.WithLabelValues("success").Inc()
	logger.Debug("Returning %d results", len(results))
	return results, nil
}
