package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddingProvider_IsValid(t *testing.T) {
	for _, p := range AllEmbeddingProviders() {
		t.Run(p.String(), func(t *testing.T) {
			assert.True(t, p.IsValid())
			assert.NotEqual(t, unknownDescription, p.Description())
		})
	}
	assert.False(t, EmbeddingProvider("openai").IsValid())
	assert.Equal(t, unknownDescription, EmbeddingProvider("openai").Description())
}

func TestEmbeddingProvider_RequiresAPIKey(t *testing.T) {
	assert.True(t, EmbeddingProviderJina.RequiresAPIKey())
	assert.False(t, EmbeddingProviderOllama.RequiresAPIKey())
	assert.False(t, EmbeddingProviderHashing.RequiresAPIKey())
}

func TestVectorBackend_IsValid(t *testing.T) {
	for _, b := range AllVectorBackends() {
		t.Run(b.String(), func(t *testing.T) {
			assert.True(t, b.IsValid())
			assert.NotEqual(t, unknownDescription, b.Description())
		})
	}
	assert.False(t, VectorBackend("qdrant").IsValid())
	assert.True(t, VectorBackendPinecone.RequiresAPIKey())
	assert.False(t, VectorBackendSQLite.RequiresAPIKey())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		want     bool
	}{
		{"jina without key", EmbeddingSettings{Provider: EmbeddingProviderJina}, false},
		{"jina with key", EmbeddingSettings{Provider: EmbeddingProviderJina, APIKey: "k"}, true},
		{"ollama", EmbeddingSettings{Provider: EmbeddingProviderOllama}, true},
		{"unset", EmbeddingSettings{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}

func TestVectorIndexSettings_IsConfigured(t *testing.T) {
	assert.False(t, VectorIndexSettings{Backend: VectorBackendPinecone}.IsConfigured())
	assert.True(t, VectorIndexSettings{Backend: VectorBackendPinecone, APIKey: "k"}.IsConfigured())
	assert.True(t, VectorIndexSettings{Backend: VectorBackendMemory}.IsConfigured())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, "./data", s.Loader.DataDir)
	assert.Equal(t, 2000, s.Loader.MaxRowsPerFile)
	assert.Equal(t, EmbeddingProviderJina, s.Embedding.Provider)
	assert.Equal(t, "jina-embeddings-v3", s.Embedding.Model)
	assert.Equal(t, 1024, s.Embedding.Dimensions)
	assert.Equal(t, VectorBackendPinecone, s.VectorIndex.Backend)
	assert.Equal(t, "wildfire-narratives", s.VectorIndex.Name)
	assert.Equal(t, "cosine", s.VectorIndex.Metric)
	assert.Equal(t, "aws", s.VectorIndex.Cloud)
	assert.Equal(t, "us-east-1", s.VectorIndex.Region)
	assert.Equal(t, 100, s.BatchSize)
	assert.Equal(t, 3, s.TopK)
	assert.NoError(t, s.Validate())
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"bad provider", func(s *AppSettings) { s.Embedding.Provider = "openai" }},
		{"bad backend", func(s *AppSettings) { s.VectorIndex.Backend = "qdrant" }},
		{"zero dimensions", func(s *AppSettings) { s.Embedding.Dimensions = 0 }},
		{"negative row cap", func(s *AppSettings) { s.Loader.MaxRowsPerFile = -1 }},
		{"zero batch", func(s *AppSettings) { s.BatchSize = 0 }},
		{"zero top k", func(s *AppSettings) { s.TopK = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			err := s.Validate()
			assert.True(t, errors.Is(err, ErrInvalidConfig))
		})
	}
}

func TestAppSettings_ValidateUnlimitedRows(t *testing.T) {
	s := DefaultAppSettings()
	s.Loader.MaxRowsPerFile = 0
	assert.NoError(t, s.Validate())
}

func TestDefaultEmbeddingModels(t *testing.T) {
	models := DefaultEmbeddingModels()
	for _, p := range AllEmbeddingProviders() {
		assert.NotEmpty(t, models[p], p)
	}
	assert.Equal(t, 1024, EmbeddingDimensions()[models[EmbeddingProviderJina]])
}
