package mcp

import (
	"context"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results   []domain.SearchResult
	err       error
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	stats domain.IndexStats
	err   error
}

func (m *mockIndexService) Build(
	_ context.Context,
	_ []domain.Event,
	_ domain.BuildOptions,
) (*domain.BuildReport, error) {
	return nil, m.err
}

func (m *mockIndexService) Stats(_ context.Context) (domain.IndexStats, error) {
	return m.stats, m.err
}
