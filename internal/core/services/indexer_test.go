package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

func narratedEvents(t *testing.T, records ...domain.Record) []domain.Event {
	t.Helper()
	return NewPipelineService(&mockLoader{}, "", testMetrics()).Process(records)
}

func TestIndexerService_SkipsPopulatedIndex(t *testing.T) {
	embedder := &mockEmbeddingService{dims: 4}
	index := &mockVectorIndex{count: 42}
	svc := NewIndexerService(embedder, index, testMetrics())

	events := narratedEvents(t, payloadRecord("a.csv", "A", `{"acreage":50}`))
	report, err := svc.Build(context.Background(), events, domain.BuildOptions{})

	require.NoError(t, err)
	assert.True(t, report.Skipped)
	assert.Equal(t, 42, report.ExistingCount)
	assert.Empty(t, embedder.passageCalls)
	assert.Empty(t, index.batches)
	assert.NotEmpty(t, report.RunID)
}

func TestIndexerService_RebuildIgnoresPopulatedIndex(t *testing.T) {
	embedder := &mockEmbeddingService{dims: 4}
	index := &mockVectorIndex{count: 42}
	svc := NewIndexerService(embedder, index, testMetrics())

	events := narratedEvents(t, payloadRecord("a.csv", "A", `{"acreage":50}`))
	report, err := svc.Build(context.Background(), events, domain.BuildOptions{Rebuild: true})

	require.NoError(t, err)
	assert.False(t, report.Skipped)
	assert.Equal(t, 1, report.Uploaded)
	assert.Len(t, embedder.passageCalls, 1)
}

func TestIndexerService_DeduplicatesNarratives(t *testing.T) {
	embedder := &mockEmbeddingService{dims: 4}
	index := &mockVectorIndex{}
	svc := NewIndexerService(embedder, index, testMetrics())

	// Six rows, three distinct narratives.
	events := narratedEvents(t,
		payloadRecord("a.csv", "Alpha", `{"acreage":50}`),
		payloadRecord("b.csv", "Alpha", `{"acreage":50}`),
		payloadRecord("a.csv", "Bravo", `{"acreage":15000,"containment":40,"evacuation_orders":true}`),
		payloadRecord("c.csv", "Alpha", `{"acreage":50}`),
		payloadRecord("b.csv", "Bravo", `{"acreage":15000,"containment":40,"evacuation_orders":true}`),
		domain.NewRecord("d.csv", map[string]string{"name": "Charlie", "incidentType": "Fire"}),
	)

	report, err := svc.Build(context.Background(), events, domain.BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, 6, report.Events)
	assert.Equal(t, 3, report.Unique)
	assert.Equal(t, 3, report.Uploaded)
	require.Len(t, embedder.passageCalls, 1, "one embed call for all unique narratives")
	assert.Len(t, embedder.passageCalls[0], 3)

	entries := index.upserted()
	require.Len(t, entries, 3)

	tests := []struct {
		id         string
		label      string
		source     string
		severity   string
		disruption string
		acreage    string
	}{
		{"doc_0", "[Alpha]", "a.csv", "low", "medium", "50"},
		{"doc_1", "[Bravo]", "a.csv", "high", "high", "15000"},
		{"doc_2", "[Charlie]", "d.csv", "medium", "medium", "5000"},
	}
	for i, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			e := entries[i]
			assert.Equal(t, tt.id, e.ID)
			assert.Contains(t, e.Metadata[domain.MetaText], tt.label)
			assert.Equal(t, tt.source, e.Metadata[domain.MetaSourceFile])
			assert.Equal(t, tt.severity, e.Metadata[domain.MetaSeverity])
			assert.Equal(t, tt.disruption, e.Metadata[domain.MetaDisruption])
			assert.Equal(t, tt.acreage, e.Metadata[domain.MetaAcreage])
		})
	}
}

func TestIndexerService_UnknownAcreageMetadata(t *testing.T) {
	index := &mockVectorIndex{}
	svc := NewIndexerService(&mockEmbeddingService{dims: 4}, index, testMetrics())

	events := narratedEvents(t, domain.NewRecord("a.csv", map[string]string{"name": "Nothing known"}))
	_, err := svc.Build(context.Background(), events, domain.BuildOptions{})
	require.NoError(t, err)

	entries := index.upserted()
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].Metadata[domain.MetaAcreage])
}

func TestIndexerService_BatchesWithProgress(t *testing.T) {
	index := &mockVectorIndex{}
	svc := NewIndexerService(&mockEmbeddingService{dims: 4}, index, testMetrics(), WithBatchSize(2))

	var records []domain.Record
	for i := 0; i < 5; i++ {
		records = append(records, payloadRecord("a.csv", fmt.Sprintf("Fire %d", i), `{"acreage":10}`))
	}

	var progress [][2]int
	report, err := svc.Build(context.Background(), narratedEvents(t, records...), domain.BuildOptions{
		Progress: func(uploaded, total int) { progress = append(progress, [2]int{uploaded, total}) },
	})

	require.NoError(t, err)
	assert.Equal(t, 5, report.Uploaded)
	require.Len(t, index.batches, 3)
	assert.Len(t, index.batches[0], 2)
	assert.Len(t, index.batches[2], 1)
	assert.Equal(t, [][2]int{{2, 5}, {4, 5}, {5, 5}}, progress)
}

func TestIndexerService_FailedBatchAborts(t *testing.T) {
	index := &mockVectorIndex{upsertErr: domain.ErrIndex, failAfter: 1}
	svc := NewIndexerService(&mockEmbeddingService{dims: 4}, index, testMetrics(), WithBatchSize(1))

	events := narratedEvents(t,
		payloadRecord("a.csv", "One", `{"acreage":10}`),
		payloadRecord("a.csv", "Two", `{"acreage":10}`),
		payloadRecord("a.csv", "Three", `{"acreage":10}`),
	)
	_, err := svc.Build(context.Background(), events, domain.BuildOptions{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIndex))
	// The first batch stays written.
	assert.Len(t, index.batches, 1)
}

func TestIndexerService_Errors(t *testing.T) {
	events := func(t *testing.T) []domain.Event {
		return narratedEvents(t, payloadRecord("a.csv", "A", `{"acreage":10}`))
	}

	tests := []struct {
		name     string
		embedder *mockEmbeddingService
		index    *mockVectorIndex
		want     error
	}{
		{"stats fails", &mockEmbeddingService{dims: 4}, &mockVectorIndex{statsErr: domain.ErrVectorIndexUnavailable}, domain.ErrVectorIndexUnavailable},
		{"embed fails", &mockEmbeddingService{dims: 4, passageErr: domain.ErrEmbedding}, &mockVectorIndex{}, domain.ErrEmbedding},
		{"short embed response", &mockEmbeddingService{dims: 4, short: true}, &mockVectorIndex{}, domain.ErrEmbedding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewIndexerService(tt.embedder, tt.index, testMetrics())
			report, err := svc.Build(context.Background(), events(t), domain.BuildOptions{})
			assert.Nil(t, report)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Empty(t, tt.index.batches)
		})
	}
}

func TestIndexerService_NoEvents(t *testing.T) {
	embedder := &mockEmbeddingService{dims: 4}
	svc := NewIndexerService(embedder, &mockVectorIndex{}, testMetrics())

	report, err := svc.Build(context.Background(), nil, domain.BuildOptions{})

	require.NoError(t, err)
	assert.Equal(t, 0, report.Uploaded)
	assert.Empty(t, embedder.passageCalls)
}

func TestIndexerService_Timing(t *testing.T) {
	start := time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(start)

	embedder := &mockEmbeddingService{
		dims: 4,
		embed: func(string) []float32 {
			clock.Advance(3 * time.Second)
			return []float32{1, 0, 0, 0}
		},
	}
	svc := NewIndexerService(embedder, &mockVectorIndex{}, testMetrics(), WithClock(clock))

	events := narratedEvents(t,
		payloadRecord("a.csv", "One", `{"acreage":10}`),
		payloadRecord("a.csv", "Two", `{"acreage":10}`),
	)
	report, err := svc.Build(context.Background(), events, domain.BuildOptions{})

	require.NoError(t, err)
	assert.Equal(t, start, report.StartedAt)
	assert.Equal(t, 6*time.Second, report.Duration())
}

func TestIndexerService_Stats(t *testing.T) {
	svc := NewIndexerService(&mockEmbeddingService{dims: 4}, &mockVectorIndex{count: 7}, testMetrics())

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 7, stats.VectorCount)
	assert.True(t, stats.Populated())
}
