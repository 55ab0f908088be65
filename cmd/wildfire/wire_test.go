package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/embedding/hashing"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/embedding/jina"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/embedding/ollama"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/vectorindex/memory"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/vectorindex/pinecone"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/vectorindex/sqlite"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

func TestNewEmbedder(t *testing.T) {
	tests := []struct {
		name     string
		cfg      domain.EmbeddingSettings
		wantType any
		wantErr  error
	}{
		{
			name:     "jina",
			cfg:      domain.EmbeddingSettings{Provider: domain.EmbeddingProviderJina, APIKey: "k", Dimensions: 1024},
			wantType: &jina.EmbeddingService{},
		},
		{
			name:    "jina without key",
			cfg:     domain.EmbeddingSettings{Provider: domain.EmbeddingProviderJina, Dimensions: 1024},
			wantErr: domain.ErrMissingCredential,
		},
		{
			name:     "ollama",
			cfg:      domain.EmbeddingSettings{Provider: domain.EmbeddingProviderOllama, Model: "nomic-embed-text", Dimensions: 768},
			wantType: &ollama.EmbeddingService{},
		},
		{
			name:     "hashing",
			cfg:      domain.EmbeddingSettings{Provider: domain.EmbeddingProviderHashing, Dimensions: 32},
			wantType: &hashing.EmbeddingService{},
		},
		{
			name:    "unknown",
			cfg:     domain.EmbeddingSettings{Provider: "bert"},
			wantErr: domain.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newEmbedder(tt.cfg)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, got)
			assert.Equal(t, tt.cfg.Dimensions, got.Dimensions())
			assert.NoError(t, got.Close())
		})
	}
}

func TestNewVectorIndex(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		cfg      domain.VectorIndexSettings
		wantType any
		wantErr  error
	}{
		{
			name:     "pinecone",
			cfg:      domain.VectorIndexSettings{Backend: domain.VectorBackendPinecone, APIKey: "k", Name: "idx"},
			wantType: &pinecone.Index{},
		},
		{
			name:    "pinecone without key",
			cfg:     domain.VectorIndexSettings{Backend: domain.VectorBackendPinecone, Name: "idx"},
			wantErr: domain.ErrMissingCredential,
		},
		{
			name:     "sqlite",
			cfg:      domain.VectorIndexSettings{Backend: domain.VectorBackendSQLite, Name: "idx", Path: filepath.Join(dir, "index.db")},
			wantType: &sqlite.Index{},
		},
		{
			name:     "memory",
			cfg:      domain.VectorIndexSettings{Backend: domain.VectorBackendMemory, Name: "idx"},
			wantType: &memory.Index{},
		},
		{
			name:    "unknown",
			cfg:     domain.VectorIndexSettings{Backend: "redis"},
			wantErr: domain.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newVectorIndex(tt.cfg, 8)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, got)
			assert.NoError(t, got.Close())
		})
	}
}

func TestBuildServices(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{Provider: domain.EmbeddingProviderHashing, Dimensions: 16}
	settings.VectorIndex.Backend = domain.VectorBackendMemory

	svc, err := buildServices(context.Background(), &settings)
	require.NoError(t, err)
	require.NotNil(t, svc.Gatherer)
	assert.Equal(t, hashing.ModelName, svc.Model)

	stats, err := svc.Index.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 16, stats.Dimension)
	assert.Equal(t, domain.DefaultIndexName, stats.Name)

	families, err := svc.Gatherer.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.NoError(t, svc.Close())
}

func TestBuildServices_MissingCredential(t *testing.T) {
	settings := domain.DefaultAppSettings()

	_, err := buildServices(context.Background(), &settings)
	require.Error(t, err)
	var credErr *domain.CredentialError
	require.True(t, errors.As(err, &credErr))
	assert.Equal(t, "JINA_API_KEY", credErr.EnvVar)
}
