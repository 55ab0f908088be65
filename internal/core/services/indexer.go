package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driven"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driving"
	"github.com/sipneat/wildfire-narratives/internal/logger"
	"github.com/sipneat/wildfire-narratives/internal/observability"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexService = (*IndexerService)(nil)

// IndexerService embeds unique narratives and upserts them into the
// vector index.
type IndexerService struct {
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	batchSize int
	clock     clockwork.Clock
	metrics   *observability.Metrics
}

// IndexerOption configures an IndexerService.
type IndexerOption func(*IndexerService)

// WithClock replaces the clock used for build timing.
func WithClock(c clockwork.Clock) IndexerOption {
	return func(s *IndexerService) {
		s.clock = c
	}
}

// WithBatchSize sets the number of vectors per upsert call.
func WithBatchSize(n int) IndexerOption {
	return func(s *IndexerService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// NewIndexerService creates a new indexer.
func NewIndexerService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	metrics *observability.Metrics,
	opts ...IndexerOption,
) *IndexerService {
	s := &IndexerService{
		embedder:  embedder,
		index:     index,
		batchSize: domain.DefaultBatchSize,
		clock:     clockwork.NewRealClock(),
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats reports the current index state.
func (s *IndexerService) Stats(ctx context.Context) (domain.IndexStats, error) {
	stats, err := s.index.Stats(ctx)
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("index stats: %w", err)
	}
	s.metrics.IndexVectors.Set(float64(stats.VectorCount))
	return stats, nil
}

// Build embeds and upserts unique narratives. A populated index is left
// untouched unless opts.Rebuild is set. A failed batch aborts the build;
// batches already written stay in the index.
func (s *IndexerService) Build(
	ctx context.Context, events []domain.Event, opts domain.BuildOptions,
) (*domain.BuildReport, error) {
	report := &domain.BuildReport{
		RunID:     uuid.NewString(),
		Events:    len(events),
		StartedAt: s.clock.Now(),
	}
	logger.Section("Index Build " + report.RunID)

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	report.ExistingCount = stats.VectorCount

	if stats.Populated() && !opts.Rebuild {
		logger.Debug("Index %q has %d vectors, skipping build", stats.Name, stats.VectorCount)
		s.metrics.IndexBuildsSkipped.Inc()
		report.Skipped = true
		report.FinishedAt = s.clock.Now()
		return report, nil
	}

	unique := uniqueNarratives(events)
	report.Unique = len(unique)
	s.metrics.UniqueNarratives.Set(float64(len(unique)))
	s.metrics.NarrativesDeduplicated.Add(float64(len(events) - len(unique)))
	logger.Info("Unique narratives to embed: %d", len(unique))

	if len(unique) == 0 {
		report.FinishedAt = s.clock.Now()
		return report, nil
	}

	texts := make([]string, len(unique))
	for i, ev := range unique {
		texts[i] = ev.Narrative
	}

	embedStart := s.clock.Now()
	s.metrics.EmbeddingRequests.WithLabelValues("passage").Inc()
	vectors, err := s.embedder.EmbedPassages(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed narratives: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embed narratives: %w: got %d vectors for %d texts",
			domain.ErrEmbedding, len(vectors), len(texts))
	}
	s.metrics.EmbedDuration.Observe(s.clock.Since(embedStart).Seconds())
	logger.Debug("Embedded %d narratives with %s", len(texts), s.embedder.ModelName())

	entries := make([]domain.VectorEntry, len(unique))
	for i, ev := range unique {
		entries[i] = domain.VectorEntry{
			ID:       "doc_" + strconv.Itoa(i),
			Values:   vectors[i],
			Metadata: entryMetadata(ev),
		}
	}

	for start := 0; start < len(entries); start += s.batchSize {
		end := min(start+s.batchSize, len(entries))

		batchStart := s.clock.Now()
		if err := s.index.Upsert(ctx, entries[start:end]); err != nil {
			return nil, fmt.Errorf("upsert vectors %d-%d: %w", start, end-1, err)
		}
		s.metrics.UpsertBatchDuration.Observe(s.clock.Since(batchStart).Seconds())
		s.metrics.VectorsUpserted.Add(float64(end - start))

		report.Uploaded = end
		if opts.Progress != nil {
			opts.Progress(end, len(entries))
		}
	}

	report.FinishedAt = s.clock.Now()
	s.metrics.IndexVectors.Set(float64(report.Uploaded))
	s.metrics.IndexBuildDuration.Observe(report.Duration().Seconds())
	logger.Info("Build %s uploaded %d vectors in %s", report.RunID, report.Uploaded, report.Duration())
	return report, nil
}

// uniqueNarratives keeps the first event for each distinct narrative.
func uniqueNarratives(events []domain.Event) []domain.Event {
	seen := make(map[string]struct{}, len(events))
	unique := make([]domain.Event, 0, len(events))
	for _, ev := range events {
		if _, ok := seen[ev.Narrative]; ok {
			continue
		}
		seen[ev.Narrative] = struct{}{}
		unique = append(unique, ev)
	}
	return unique
}

func entryMetadata(ev domain.Event) domain.Metadata {
	acreage := ""
	if ev.Features.Acreage != nil {
		acreage = strconv.FormatFloat(*ev.Features.Acreage, 'f', -1, 64)
	}
	return domain.Metadata{
		domain.MetaText:       ev.Narrative,
		domain.MetaSeverity:   ev.Classification.Severity.String(),
		domain.MetaDisruption: ev.Classification.Disruption.String(),
		domain.MetaAcreage:    acreage,
		domain.MetaSourceFile: ev.Record.Source,
	}
}
