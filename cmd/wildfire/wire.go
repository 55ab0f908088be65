package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/config/file"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/embedding/hashing"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/embedding/jina"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/embedding/ollama"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/tabular"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/vectorindex/memory"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/vectorindex/pinecone"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/vectorindex/sqlite"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driving/cli"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driven"
	"github.com/sipneat/wildfire-narratives/internal/core/services"
	"github.com/sipneat/wildfire-narratives/internal/logger"
	"github.com/sipneat/wildfire-narratives/internal/observability"
)

// buildServices constructs adapters for the configured provider and
// backend and wires them into the core services.
func buildServices(_ context.Context, settings *domain.AppSettings) (*cli.Services, error) {
	embedder, err := newEmbedder(settings.Embedding)
	if err != nil {
		return nil, err
	}

	index, err := newVectorIndex(settings.VectorIndex, embedder.Dimensions())
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}
	logger.Debug("embedding: %s (%s), index: %s (%s)",
		embedder.ModelName(), settings.Embedding.Provider, settings.VectorIndex.Name, settings.VectorIndex.Backend)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := observability.NewMetricsWith(registry)
	if err != nil {
		_ = index.Close()
		_ = embedder.Close()
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	loader := tabular.New(tabular.WithMaxRowsPerFile(settings.Loader.MaxRowsPerFile))
	indexer := services.NewIndexerService(embedder, index, metrics, services.WithBatchSize(settings.BatchSize))
	search := services.NewSearchService(embedder, index, settings.TopK, metrics)

	return &cli.Services{
		Pipeline: services.NewPipelineService(loader, settings.Loader.DataDir, metrics),
		Index:    indexer,
		Search:   search,
		Check:    services.NewCheckService(indexer, search),
		Gatherer: registry,
		Model:    embedder.ModelName(),
		Close: func() error {
			return errors.Join(index.Close(), embedder.Close())
		},
	}, nil
}

func newEmbedder(cfg domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case domain.EmbeddingProviderJina:
		return jina.NewEmbeddingService(jina.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	case domain.EmbeddingProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil
	case domain.EmbeddingProviderHashing:
		return hashing.NewEmbeddingService(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, cfg.Provider)
	}
}

func newVectorIndex(cfg domain.VectorIndexSettings, dimension int) (driven.VectorIndex, error) {
	switch cfg.Backend {
	case domain.VectorBackendPinecone:
		return pinecone.New(pinecone.Config{
			APIKey:    cfg.APIKey,
			Name:      cfg.Name,
			Dimension: dimension,
			Metric:    cfg.Metric,
			Cloud:     cfg.Cloud,
			Region:    cfg.Region,
		})
	case domain.VectorBackendSQLite:
		path := cfg.Path
		if path == "" {
			dir, err := file.DefaultDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, sqlite.DefaultFileName)
		}
		return sqlite.New(path, cfg.Name, dimension)
	case domain.VectorBackendMemory:
		return memory.New(cfg.Name, dimension), nil
	default:
		return nil, fmt.Errorf("%w: vector backend %q", domain.ErrUnsupportedType, cfg.Backend)
	}
}
