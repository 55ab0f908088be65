package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/config/file"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

func newTestSettings(t *testing.T, env map[string]string) (*SettingsService, *file.ConfigStore) {
	t.Helper()
	store, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)
	svc := NewSettingsService(store)
	svc.getenv = func(key string) string { return env[key] }
	return svc, store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	svc, _ := newTestSettings(t, nil)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, svc.GetDefaults(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	svc, store := newTestSettings(t, nil)
	require.NoError(t, store.Set(KeyDataDir, "/srv/fires"))
	require.NoError(t, store.Set(KeyEmbedProvider, "ollama"))
	require.NoError(t, store.Set(KeyVectorBackend, "sqlite"))
	require.NoError(t, store.Set(KeyVectorPath, "/tmp/index.db"))
	require.NoError(t, store.Set(KeyBatchSize, 50))
	require.NoError(t, store.Set(KeyTopK, 5))
	require.NoError(t, store.Set(KeyMaxRowsPerFile, 0))

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, "/srv/fires", settings.Loader.DataDir)
	assert.Equal(t, 0, settings.Loader.MaxRowsPerFile)
	assert.Equal(t, domain.EmbeddingProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, 768, settings.Embedding.Dimensions)
	assert.Equal(t, domain.VectorBackendSQLite, settings.VectorIndex.Backend)
	assert.Equal(t, "/tmp/index.db", settings.VectorIndex.Path)
	assert.Equal(t, 50, settings.BatchSize)
	assert.Equal(t, 5, settings.TopK)
}

func TestSettingsService_Get_ExplicitDimensionsWin(t *testing.T) {
	svc, store := newTestSettings(t, nil)
	require.NoError(t, store.Set(KeyEmbedProvider, "ollama"))
	require.NoError(t, store.Set(KeyEmbedModel, "custom-model"))
	require.NoError(t, store.Set(KeyEmbedDims, 512))

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, "custom-model", settings.Embedding.Model)
	assert.Equal(t, 512, settings.Embedding.Dimensions)
}

func TestSettingsService_Get_InvalidEnumsFallBack(t *testing.T) {
	svc, store := newTestSettings(t, nil)
	require.NoError(t, store.Set(KeyEmbedProvider, "openai"))
	require.NoError(t, store.Set(KeyVectorBackend, "qdrant"))

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.EmbeddingProviderJina, settings.Embedding.Provider)
	assert.Equal(t, domain.VectorBackendPinecone, settings.VectorIndex.Backend)
}

func TestSettingsService_Get_InvalidValue(t *testing.T) {
	svc, store := newTestSettings(t, nil)
	require.NoError(t, store.Set(KeyBatchSize, 0))

	_, err := svc.Get()

	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
}

func TestSettingsService_Get_EnvironmentWins(t *testing.T) {
	svc, store := newTestSettings(t, map[string]string{
		EnvPineconeAPIKey: "pc-env",
		EnvJinaAPIKey:     "jina-env",
		EnvDataDir:        "/env/data",
	})
	require.NoError(t, store.Set(KeyVectorAPIKey, "pc-file"))
	require.NoError(t, store.Set(KeyEmbedAPIKey, "jina-file"))
	require.NoError(t, store.Set(KeyDataDir, "/file/data"))

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, "pc-env", settings.VectorIndex.APIKey)
	assert.Equal(t, "jina-env", settings.Embedding.APIKey)
	assert.Equal(t, "/env/data", settings.Loader.DataDir)
	assert.True(t, settings.VectorIndex.IsConfigured())
	assert.True(t, settings.Embedding.IsConfigured())
}

func TestSettingsService_Get_FileKeysWithoutEnv(t *testing.T) {
	svc, store := newTestSettings(t, nil)
	require.NoError(t, store.Set(KeyVectorAPIKey, "pc-file"))

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, "pc-file", settings.VectorIndex.APIKey)
	assert.False(t, settings.Embedding.IsConfigured())
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		want    any
		wantErr bool
	}{
		{"string", KeyDataDir, "/data", "/data", false},
		{"int from string", KeyTopK, "5", 5, false},
		{"int", KeyBatchSize, 25, 25, false},
		{"provider", KeyEmbedProvider, "hashing", "hashing", false},
		{"backend", KeyVectorBackend, "memory", "memory", false},
		{"bad int", KeyTopK, "five", nil, true},
		{"bad provider", KeyEmbedProvider, "openai", nil, true},
		{"bad backend", KeyVectorBackend, "qdrant", nil, true},
		{"unknown key", "search.mode", "hybrid", nil, true},
		{"string key given int", KeyVectorName, 3, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestSettings(t, nil)

			err := svc.Set(tt.key, tt.value)
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
				_, ok := store.Get(tt.key)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			got, ok := store.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_SetErrorKinds(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		cause error
	}{
		{"bad int", KeyTopK, "five", domain.ErrInvalidInput},
		{"string key given int", KeyVectorName, 3, domain.ErrInvalidInput},
		{"bad provider", KeyEmbedProvider, "openai", domain.ErrUnsupportedType},
		{"bad backend", KeyVectorBackend, "qdrant", domain.ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestSettings(t, nil)

			err := svc.Set(tt.key, tt.value)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
			assert.True(t, errors.Is(err, tt.cause))
		})
	}
}

func TestSettingsService_Path(t *testing.T) {
	svc, store := newTestSettings(t, nil)
	assert.Equal(t, store.Path(), svc.Path())
}

func TestKnownKeys_Sorted(t *testing.T) {
	keys := KnownKeys()
	assert.Len(t, keys, len(knownKeys))
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, KeyTopK)
}
