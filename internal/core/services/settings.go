package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driven"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyDataDir        = "data.dir"
	KeyMaxRowsPerFile = "loader.max_rows_per_file"
	KeyEmbedProvider  = "embedding.provider"
	KeyEmbedModel     = "embedding.model"
	KeyEmbedBaseURL   = "embedding.base_url"
	KeyEmbedDims      = "embedding.dimensions"
	KeyEmbedAPIKey    = "embedding.api_key"
	KeyVectorBackend  = "vector_index.backend"
	KeyVectorName     = "vector_index.name"
	KeyVectorMetric   = "vector_index.metric"
	KeyVectorCloud    = "vector_index.cloud"
	KeyVectorRegion   = "vector_index.region"
	KeyVectorAPIKey   = "vector_index.api_key"
	KeyVectorPath     = "vector_index.path"
	KeyBatchSize      = "indexer.batch_size"
	KeyTopK           = "search.top_k"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvPineconeAPIKey = "PINECONE_API_KEY"
	EnvJinaAPIKey     = "JINA_API_KEY"
	EnvDataDir        = "WILDFIRE_DATA_DIR"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindProvider
	kindBackend
)

var knownKeys = map[string]keyKind{
	KeyDataDir:        kindString,
	KeyMaxRowsPerFile: kindInt,
	KeyEmbedProvider:  kindProvider,
	KeyEmbedModel:     kindString,
	KeyEmbedBaseURL:   kindString,
	KeyEmbedDims:      kindInt,
	KeyEmbedAPIKey:    kindString,
	KeyVectorBackend:  kindBackend,
	KeyVectorName:     kindString,
	KeyVectorMetric:   kindString,
	KeyVectorCloud:    kindString,
	KeyVectorRegion:   kindString,
	KeyVectorAPIKey:   kindString,
	KeyVectorPath:     kindString,
	KeyBatchSize:      kindInt,
	KeyTopK:           kindInt,
}

// KnownKeys returns the settable config keys in sorted order.
func KnownKeys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SettingsService resolves application settings from defaults, the config
// store and the environment, in that order.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Loader: domain.LoaderSettings{
			DataDir:        s.getString(KeyDataDir, defaults.Loader.DataDir),
			MaxRowsPerFile: s.getInt(KeyMaxRowsPerFile, defaults.Loader.MaxRowsPerFile),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(defaults.Embedding.Provider),
			BaseURL:    s.configStore.GetString(KeyEmbedBaseURL), // No default - each adapter knows its own
			APIKey:     s.configStore.GetString(KeyEmbedAPIKey),
			Dimensions: s.getInt(KeyEmbedDims, defaults.Embedding.Dimensions),
		},
		VectorIndex: domain.VectorIndexSettings{
			Backend: s.getBackend(defaults.VectorIndex.Backend),
			Name:    s.getString(KeyVectorName, defaults.VectorIndex.Name),
			Metric:  s.getString(KeyVectorMetric, defaults.VectorIndex.Metric),
			Cloud:   s.getString(KeyVectorCloud, defaults.VectorIndex.Cloud),
			Region:  s.getString(KeyVectorRegion, defaults.VectorIndex.Region),
			APIKey:  s.configStore.GetString(KeyVectorAPIKey),
			Path:    s.configStore.GetString(KeyVectorPath),
		},
		BatchSize: s.getInt(KeyBatchSize, defaults.BatchSize),
		TopK:      s.getInt(KeyTopK, defaults.TopK),
	}

	// The model default follows the provider.
	modelDefault := domain.DefaultEmbeddingModels()[settings.Embedding.Provider]
	settings.Embedding.Model = s.getString(KeyEmbedModel, modelDefault)
	if _, set := s.configStore.Get(KeyEmbedDims); !set {
		if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
			settings.Embedding.Dimensions = d
		}
	}

	if v := s.getenv(EnvDataDir); v != "" {
		settings.Loader.DataDir = v
	}
	if v := s.getenv(EnvJinaAPIKey); v != "" {
		settings.Embedding.APIKey = v
	}
	if v := s.getenv(EnvPineconeAPIKey); v != "" {
		settings.VectorIndex.APIKey = v
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Set validates and writes a single key. String values for integer keys
// are parsed.
func (s *SettingsService) Set(key string, value any) error {
	kind, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown key %q (known: %s)", domain.ErrInvalidConfig, key, strings.Join(KnownKeys(), ", "))
	}

	coerced, err := coerce(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidConfig, key, err)
	}

	if err := s.configStore.Set(key, coerced); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Path returns the config file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func coerce(kind keyKind, value any) (any, error) {
	switch kind {
	case kindInt:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidInput, v)
			}
			return n, nil
		default:
			return nil, fmt.Errorf("%w: value type %T", domain.ErrInvalidInput, value)
		}
	case kindProvider:
		p := domain.EmbeddingProvider(fmt.Sprint(value))
		if !p.IsValid() {
			return nil, fmt.Errorf("%w: provider %q", domain.ErrUnsupportedType, p)
		}
		return p.String(), nil
	case kindBackend:
		b := domain.VectorBackend(fmt.Sprint(value))
		if !b.IsValid() {
			return nil, fmt.Errorf("%w: backend %q", domain.ErrUnsupportedType, b)
		}
		return b.String(), nil
	default:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: value type %T", domain.ErrInvalidInput, value)
		}
		return str, nil
	}
}

// Helper methods for reading config with defaults

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getProvider(defaultVal domain.EmbeddingProvider) domain.EmbeddingProvider {
	p := domain.EmbeddingProvider(s.configStore.GetString(KeyEmbedProvider))
	if p.IsValid() {
		return p
	}
	return defaultVal
}

func (s *SettingsService) getBackend(defaultVal domain.VectorBackend) domain.VectorBackend {
	b := domain.VectorBackend(s.configStore.GetString(KeyVectorBackend))
	if b.IsValid() {
		return b
	}
	return defaultVal
}
