// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Passages and queries are encoded asymmetrically: both land in the same
// vector space, but each side uses its own encoding mode. Callers must
// use EmbedPassages when indexing and EmbedQuery when searching.
//
// Implementations may include:
//   - Jina AI (jina-embeddings-v3, retrieval.passage / retrieval.query)
//   - Ollama (nomic-embed-text with search_document / search_query prefixes)
//   - Feature hashing for offline runs and tests
type EmbeddingService interface {
	// EmbedPassages encodes documents for storage. The result has one
	// vector per input, in input order. Implementations chunk large
	// inputs internally.
	EmbedPassages(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery encodes a search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	// This must match the VectorIndex configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
