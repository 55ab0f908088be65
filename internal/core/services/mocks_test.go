package services

import (
	"context"
	"strings"
	"sync"
	"unicode"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driven"
	"github.com/sipneat/wildfire-narratives/internal/observability"
)

// --- Mock implementations ---

// mockLoader implements driven.RecordLoader.
type mockLoader struct {
	set     *domain.RecordSet
	err     error
	gotDirs []string
}

var _ driven.RecordLoader = (*mockLoader)(nil)

func (m *mockLoader) Load(_ context.Context, dir string) (*domain.RecordSet, error) {
	m.gotDirs = append(m.gotDirs, dir)
	return m.set, m.err
}

// mockEmbeddingService implements driven.EmbeddingService.
// Vectors come from embed, or a constant unit vector when nil.
type mockEmbeddingService struct {
	mu           sync.Mutex
	dims         int
	embed        func(text string) []float32
	passageErr   error
	queryErr     error
	short        bool
	passageCalls [][]string
	queryCalls   []string
}

var _ driven.EmbeddingService = (*mockEmbeddingService)(nil)

func (m *mockEmbeddingService) vector(text string) []float32 {
	if m.embed != nil {
		return m.embed(text)
	}
	v := make([]float32, m.dims)
	v[0] = 1
	return v
}

func (m *mockEmbeddingService) EmbedPassages(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passageCalls = append(m.passageCalls, append([]string(nil), texts...))
	if m.passageErr != nil {
		return nil, m.passageErr
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, m.vector(t))
	}
	if m.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbeddingService) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls = append(m.queryCalls, text)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) Dimensions() int   { return m.dims }
func (m *mockEmbeddingService) ModelName() string { return "mock-embedder" }
func (m *mockEmbeddingService) Close() error      { return nil }

// mockVectorIndex implements driven.VectorIndex, recording upsert batches.
type mockVectorIndex struct {
	mu         sync.Mutex
	count      int
	statsErr   error
	upsertErr  error
	failAfter  int // batches accepted before upsertErr is returned
	queryErr   error
	results    []domain.SearchResult
	batches    [][]domain.VectorEntry
	queryK     []int
	statsCalls int
}

var _ driven.VectorIndex = (*mockVectorIndex)(nil)

func (m *mockVectorIndex) Stats(_ context.Context) (domain.IndexStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsCalls++
	if m.statsErr != nil {
		return domain.IndexStats{}, m.statsErr
	}
	return domain.IndexStats{Name: "mock-index", Dimension: 4, Metric: "cosine", VectorCount: m.count}, nil
}

func (m *mockVectorIndex) Upsert(_ context.Context, entries []domain.VectorEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil && len(m.batches) >= m.failAfter {
		return m.upsertErr
	}
	m.batches = append(m.batches, entries)
	m.count += len(entries)
	return nil
}

func (m *mockVectorIndex) Query(_ context.Context, _ []float32, k int) ([]domain.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryK = append(m.queryK, k)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k < len(m.results) {
		return m.results[:k], nil
	}
	return m.results, nil
}

func (m *mockVectorIndex) Close() error { return nil }

func (m *mockVectorIndex) upserted() []domain.VectorEntry {
	var all []domain.VectorEntry
	for _, b := range m.batches {
		all = append(all, b...)
	}
	return all
}

// --- Fixtures ---

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func payloadRecord(source, name, payload string) domain.Record {
	return domain.NewRecord(source, map[string]string{"name": name, "data": payload})
}

// conceptEmbedder maps words onto a few meaning axes so that query and
// passage wording can differ while still landing close together.
// Axes: small scale, large scale, quick recovery, slow recovery, bias.
var conceptWords = map[string]int{
	"small": 0, "contained": 0, "minimal": 0, "limited": 0, "localized": 0, "low-severity": 0,
	"massive": 1, "thousands": 1, "high-severity": 1, "large-scale": 1, "significant": 1, "displacement": 1,
	"quick": 2, "1-3": 2, "normalcy": 2, "standard": 2,
	"12-24+": 3, "delays": 3, "long": 3,
}

func conceptEmbed(text string) []float32 {
	v := make([]float32, 5)
	v[4] = 0.1
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '+'
	})
	for _, tok := range tokens {
		if axis, ok := conceptWords[tok]; ok {
			v[axis]++
		}
	}
	return v
}
