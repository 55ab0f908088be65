package services

import (
	"context"
	"fmt"

	"github.com/sipneat/wildfire-narratives/internal/classify"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driven"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driving"
	"github.com/sipneat/wildfire-narratives/internal/features"
	"github.com/sipneat/wildfire-narratives/internal/logger"
	"github.com/sipneat/wildfire-narratives/internal/narrative"
	"github.com/sipneat/wildfire-narratives/internal/observability"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// PipelineService runs the load, feature, classify and narrate stages.
type PipelineService struct {
	loader  driven.RecordLoader
	dataDir string
	metrics *observability.Metrics
}

// NewPipelineService creates a pipeline reading from dataDir.
func NewPipelineService(loader driven.RecordLoader, dataDir string, metrics *observability.Metrics) *PipelineService {
	return &PipelineService{
		loader:  loader,
		dataDir: dataDir,
		metrics: metrics,
	}
}

// Load reads every supported file in the data directory.
func (s *PipelineService) Load(ctx context.Context) (*domain.RecordSet, error) {
	logger.Section("Loading")
	logger.Debug("Data directory: %s", s.dataDir)

	set, err := s.loader.Load(ctx, s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	s.metrics.RecordsLoaded.Add(float64(set.Len()))
	s.metrics.FilesSkipped.Add(float64(set.SkippedFiles))
	s.metrics.RowsSkipped.Add(float64(set.SkippedRows))
	logger.Info("Loaded %d records from %d files (%d files, %d rows skipped)",
		set.Len(), len(set.Files), set.SkippedFiles, set.SkippedRows)
	return set, nil
}

// Process derives features, classification and narrative for each record,
// preserving input order.
func (s *PipelineService) Process(records []domain.Record) []domain.Event {
	events := make([]domain.Event, len(records))
	for i, rec := range records {
		ev := &events[i]
		ev.Record = rec
		ev.Features = features.Extract(rec)
		ev.Classification = classify.Classify(ev.Features)
		narrative.Narrate(ev)

		s.metrics.EventsClassified.WithLabelValues(
			ev.Classification.Severity.String(),
			ev.Classification.Disruption.String(),
		).Inc()
	}
	s.metrics.NarrativesGenerated.Add(float64(len(events)))
	return events
}
