// Package ollama provides an embedding service adapter using Ollama.
//
// nomic-style models are asymmetric: documents and queries are encoded
// with different task prefixes. The prefixes are configurable so models
// without them can set both to "".
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL       = "http://localhost:11434"
	DefaultModel         = "nomic-embed-text"
	DefaultTimeout       = 60 * time.Second
	DefaultDimensions    = 768 // nomic-embed-text default
	DefaultBatchSize     = 32
	DefaultPassagePrefix = "search_document: "
	DefaultQueryPrefix   = "search_query: "
)

// Config holds configuration for the Ollama embedding service.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: nomic-embed-text).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions is the embedding vector size (model-dependent).
	Dimensions int

	// BatchSize is the number of texts per request (default: 32).
	BatchSize int

	// PassagePrefix and QueryPrefix select the encoding mode.
	// nil uses the nomic defaults.
	PassagePrefix *string
	QueryPrefix   *string
}

// EmbeddingService generates embeddings using Ollama.
type EmbeddingService struct {
	client        *http.Client
	baseURL       string
	model         string
	dimensions    int
	batchSize     int
	passagePrefix string
	queryPrefix   string
}

// embedRequest is the /api/embed request format.
type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embedResponse is the /api/embed response format.
type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// NewEmbeddingService creates a new Ollama embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	s := &EmbeddingService{
		client:        &http.Client{Timeout: cfg.Timeout},
		baseURL:       cfg.BaseURL,
		model:         cfg.Model,
		dimensions:    cfg.Dimensions,
		batchSize:     cfg.BatchSize,
		passagePrefix: DefaultPassagePrefix,
		queryPrefix:   DefaultQueryPrefix,
	}
	if cfg.PassagePrefix != nil {
		s.passagePrefix = *cfg.PassagePrefix
	}
	if cfg.QueryPrefix != nil {
		s.queryPrefix = *cfg.QueryPrefix
	}
	return s
}

// EmbedPassages encodes documents in batches.
func (s *EmbeddingService) EmbedPassages(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += s.batchSize {
		end := min(start+s.batchSize, len(texts))
		input := make([]string, 0, end-start)
		for _, t := range texts[start:end] {
			input = append(input, s.passagePrefix+t)
		}
		vectors, err := s.embed(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("ollama: batch starting at %d: %w", start, err)
		}
		out = append(out, vectors...)
	}
	return out, nil
}

// EmbedQuery encodes a search query.
func (s *EmbeddingService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embed(ctx, []string{s.queryPrefix + text})
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	return vectors[0], nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

func (s *EmbeddingService) embed(ctx context.Context, input []string) ([][]float32, error) {
	jsonBody, err := json.Marshal(embedRequest{Model: s.model, Input: input})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/embed", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w: send request: %v", domain.ErrEmbedding, domain.ErrEmbeddingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: status %d: failed to read response", domain.ErrEmbedding, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrEmbedding, resp.StatusCode, string(body))
	}

	var embedResp embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrEmbedding, err)
	}
	if len(embedResp.Embeddings) != len(input) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", domain.ErrEmbedding, len(embedResp.Embeddings), len(input))
	}

	// Convert float64 to float32
	out := make([][]float32, len(embedResp.Embeddings))
	for i, e := range embedResp.Embeddings {
		if len(e) != s.dimensions {
			return nil, fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(e), s.dimensions)
		}
		vec := make([]float32, len(e))
		for j, v := range e {
			vec[j] = float32(v)
		}
		out[i] = vec
	}
	return out, nil
}
