package domain

import "fmt"

const unknownDescription = "Unknown"

// EmbeddingProvider identifies an embedding service.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderJina is the Jina AI embeddings API.
	EmbeddingProviderJina EmbeddingProvider = "jina"

	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"

	// EmbeddingProviderHashing is the offline feature-hashing embedder.
	EmbeddingProviderHashing EmbeddingProvider = "hashing"
)

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderJina, EmbeddingProviderOllama, EmbeddingProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == EmbeddingProviderJina
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case EmbeddingProviderJina:
		return "Jina AI (cloud)"
	case EmbeddingProviderOllama:
		return "Ollama (local)"
	case EmbeddingProviderHashing:
		return "Feature hashing (offline)"
	default:
		return unknownDescription
	}
}

// VectorBackend identifies a vector index implementation.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendPinecone is a Pinecone serverless index.
	VectorBackendPinecone VectorBackend = "pinecone"

	// VectorBackendSQLite is a local SQLite-backed index.
	VectorBackendSQLite VectorBackend = "sqlite"

	// VectorBackendMemory is an ephemeral in-process index.
	VectorBackendMemory VectorBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	switch b {
	case VectorBackendPinecone, VectorBackendSQLite, VectorBackendMemory:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this backend needs an API key.
func (b VectorBackend) RequiresAPIKey() bool {
	return b == VectorBackendPinecone
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b VectorBackend) Description() string {
	switch b {
	case VectorBackendPinecone:
		return "Pinecone (serverless)"
	case VectorBackendSQLite:
		return "SQLite (local file)"
	case VectorBackendMemory:
		return "In-memory (not persisted)"
	default:
		return unknownDescription
	}
}

// LoaderSettings configures source file loading.
type LoaderSettings struct {
	// DataDir is the directory scanned for tabular files.
	DataDir string

	// MaxRowsPerFile caps rows read from each file. 0 means unlimited.
	MaxRowsPerFile int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider EmbeddingProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// APIKey is the provider API key (for Jina).
	APIKey string

	// Dimensions is the embedding vector size.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// VectorIndexSettings holds vector index configuration.
type VectorIndexSettings struct {
	// Backend selects the index implementation.
	Backend VectorBackend

	// Name identifies the index.
	Name string

	// Metric is the similarity metric used when the index is created.
	Metric string

	// Cloud and Region place a Pinecone serverless index.
	Cloud  string
	Region string

	// APIKey is the Pinecone API key.
	APIKey string

	// Path is the SQLite index file.
	Path string
}

// IsConfigured returns true if the backend is set up.
func (v VectorIndexSettings) IsConfigured() bool {
	if !v.Backend.IsValid() {
		return false
	}
	if v.Backend.RequiresAPIKey() && v.APIKey == "" {
		return false
	}
	return true
}

// AppSettings holds all application settings.
type AppSettings struct {
	Loader      LoaderSettings
	Embedding   EmbeddingSettings
	VectorIndex VectorIndexSettings

	// BatchSize is the number of vectors per upsert request.
	BatchSize int

	// TopK is the default number of search results.
	TopK int
}

// Defaults: Jina v3 at 1024 dimensions into a cosine Pinecone index in
// aws/us-east-1.
const (
	DefaultDataDir        = "./data"
	DefaultMaxRowsPerFile = 2000
	DefaultEmbeddingModel = "jina-embeddings-v3"
	DefaultDimensions     = 1024
	DefaultIndexName      = "wildfire-narratives"
	DefaultMetric         = "cosine"
	DefaultCloud          = "aws"
	DefaultRegion         = "us-east-1"
	DefaultBatchSize      = 100
)

// DefaultAppSettings returns settings with the pipeline defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Loader: LoaderSettings{
			DataDir:        DefaultDataDir,
			MaxRowsPerFile: DefaultMaxRowsPerFile,
		},
		Embedding: EmbeddingSettings{
			Provider:   EmbeddingProviderJina,
			Model:      DefaultEmbeddingModel,
			Dimensions: DefaultDimensions,
		},
		VectorIndex: VectorIndexSettings{
			Backend: VectorBackendPinecone,
			Name:    DefaultIndexName,
			Metric:  DefaultMetric,
			Cloud:   DefaultCloud,
			Region:  DefaultRegion,
		},
		BatchSize: DefaultBatchSize,
		TopK:      DefaultSearchLimit,
	}
}

// Validate checks value ranges. Missing credentials are not checked here;
// adapters report them when constructed.
func (s AppSettings) Validate() error {
	switch {
	case !s.Embedding.Provider.IsValid():
		return fmt.Errorf("%w: embedding.provider %q", ErrInvalidConfig, s.Embedding.Provider)
	case !s.VectorIndex.Backend.IsValid():
		return fmt.Errorf("%w: vector_index.backend %q", ErrInvalidConfig, s.VectorIndex.Backend)
	case s.Embedding.Dimensions <= 0:
		return fmt.Errorf("%w: embedding.dimensions must be positive", ErrInvalidConfig)
	case s.Loader.MaxRowsPerFile < 0:
		return fmt.Errorf("%w: loader.max_rows_per_file must not be negative", ErrInvalidConfig)
	case s.BatchSize <= 0:
		return fmt.Errorf("%w: indexer.batch_size must be positive", ErrInvalidConfig)
	case s.TopK <= 0:
		return fmt.Errorf("%w: search.top_k must be positive", ErrInvalidConfig)
	}
	return nil
}

// AllEmbeddingProviders returns every supported embedding provider.
func AllEmbeddingProviders() []EmbeddingProvider {
	return []EmbeddingProvider{
		EmbeddingProviderJina,
		EmbeddingProviderOllama,
		EmbeddingProviderHashing,
	}
}

// AllVectorBackends returns every supported vector backend.
func AllVectorBackends() []VectorBackend {
	return []VectorBackend{
		VectorBackendPinecone,
		VectorBackendSQLite,
		VectorBackendMemory,
	}
}

// DefaultEmbeddingModels returns default models for each provider.
func DefaultEmbeddingModels() map[EmbeddingProvider]string {
	return map[EmbeddingProvider]string{
		EmbeddingProviderJina:    "jina-embeddings-v3",
		EmbeddingProviderOllama:  "nomic-embed-text",
		EmbeddingProviderHashing: "hashing-v1",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"jina-embeddings-v3": 1024,
		"nomic-embed-text":   768,
		"mxbai-embed-large":  1024,
		"all-minilm":         384,
	}
}
