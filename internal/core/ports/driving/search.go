package driving

import (
	"context"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// SearchService answers free-text queries against the narrative index.
type SearchService interface {
	// Search embeds the query and returns the nearest narratives,
	// ranked by descending similarity.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
