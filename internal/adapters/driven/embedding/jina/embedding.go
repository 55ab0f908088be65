// Package jina provides an embedding service adapter using the Jina AI API.
//
// Passages are encoded with the retrieval.passage task and queries with
// retrieval.query, so stored narratives and search queries share a vector
// space while being encoded asymmetrically.
package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driven"
	"github.com/sipneat/wildfire-narratives/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// APIKeyEnv is the environment variable holding the API key.
const APIKeyEnv = "JINA_API_KEY"

// Task names understood by jina-embeddings-v3.
const (
	TaskPassage = "retrieval.passage"
	TaskQuery   = "retrieval.query"
)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.jina.ai/v1"
	DefaultModel      = "jina-embeddings-v3"
	DefaultTimeout    = 60 * time.Second
	DefaultDimensions = 1024
	DefaultChunkSize  = 25
	maxRetryAfter     = 30 * time.Second
)

// DefaultBackoffs are the waits between retries of a 429 or 5xx response.
var DefaultBackoffs = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// Config holds configuration for the Jina embedding service.
type Config struct {
	// APIKey is the Jina API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.jina.ai/v1).
	BaseURL string

	// Model is the embedding model to use (default: jina-embeddings-v3).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions is the requested output size (default: 1024).
	Dimensions int

	// ChunkSize is the number of texts per request (default: 25).
	ChunkSize int

	// RateLimit paces requests (default: one every 750ms).
	RateLimit rate.Limit

	// Backoffs overrides the retry schedule.
	Backoffs []time.Duration
}

// EmbeddingService generates embeddings using the Jina API.
type EmbeddingService struct {
	client     *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	chunkSize  int
	backoffs   []time.Duration
}

type embedRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Task       string   `json:"task"`
	Dimensions int      `json:"dimensions"`
	Truncate   bool     `json:"truncate"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// NewEmbeddingService creates a new Jina embedding service.
// It fails with a credential error when no API key is configured.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, &domain.CredentialError{EnvVar: APIKeyEnv}
	}
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
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = rate.Every(750 * time.Millisecond)
	}
	if cfg.Backoffs == nil {
		cfg.Backoffs = DefaultBackoffs
	}

	return &EmbeddingService{
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(cfg.RateLimit, 1),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		chunkSize:  cfg.ChunkSize,
		backoffs:   cfg.Backoffs,
	}, nil
}

// EmbedPassages encodes documents in chunks, preserving input order.
func (s *EmbeddingService) EmbedPassages(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += s.chunkSize {
		end := min(start+s.chunkSize, len(texts))
		chunk := texts[start:end]

		vectors, err := s.embed(ctx, chunk, TaskPassage)
		if err != nil {
			return nil, fmt.Errorf("jina: chunk starting at %d: %w", start, err)
		}
		copy(results[start:end], vectors)
		logger.Debug("jina: embedded %d/%d passages", end, len(texts))
	}
	return results, nil
}

// EmbedQuery encodes a search query.
func (s *EmbeddingService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.embed(ctx, []string{text}, TaskQuery)
	if err != nil {
		return nil, fmt.Errorf("jina: %w", err)
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
	return nil
}

// embed sends one request and returns vectors ordered by the response index.
func (s *EmbeddingService) embed(ctx context.Context, input []string, task string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{
		Model:      s.model,
		Input:      input,
		Task:       task,
		Dimensions: s.dimensions,
		Truncate:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := s.doWithRetry(ctx, body)
	if err != nil {
		return nil, err
	}

	vectors := make([][]float32, len(input))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(input) {
			return nil, fmt.Errorf("%w: out-of-range index %d for %d inputs", domain.ErrEmbedding, item.Index, len(input))
		}
		if len(item.Embedding) != s.dimensions {
			return nil, fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(item.Embedding), s.dimensions)
		}
		vectors[item.Index] = item.Embedding
	}
	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("%w: missing embedding for input %d", domain.ErrEmbedding, i)
		}
	}
	return vectors, nil
}

// doWithRetry retries 429 and 5xx responses and malformed bodies, honouring
// Retry-After on 429.
func (s *EmbeddingService) doWithRetry(ctx context.Context, body []byte) (*embedResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= len(s.backoffs); attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embeddings", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.apiKey)

		resp, err := s.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
			}
			return nil, fmt.Errorf("%w: send request: %v", domain.ErrEmbedding, err)
		}

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read response: %v", domain.ErrEmbedding, err)
		}

		var delay time.Duration
		if attempt < len(s.backoffs) {
			delay = s.backoffs[attempt]
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			var out embedResponse
			if err := json.Unmarshal(respBody, &out); err == nil {
				return &out, nil
			}
			lastErr = fmt.Errorf("%w: malformed response", domain.ErrEmbedding)
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("%w: %w: status 429", domain.ErrEmbedding, domain.ErrRateLimited)
			if ra := retryAfter(resp.Header.Get("Retry-After")); ra > 0 {
				delay = ra
			}
		case resp.StatusCode >= http.StatusInternalServerError:
			lastErr = fmt.Errorf("%w: status %d: %s", domain.ErrEmbedding, resp.StatusCode, string(respBody))
		default:
			return nil, fmt.Errorf("%w: status %d: %s", domain.ErrEmbedding, resp.StatusCode, string(respBody))
		}

		if attempt == len(s.backoffs) {
			break
		}
		logger.Debug("jina: attempt %d failed, retrying in %s: %v", attempt+1, delay, lastErr)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("request cancelled during retry: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("all retries exhausted: %w", lastErr)
}

func retryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return 0
	}
	return min(time.Duration(seconds)*time.Second, maxRetryAfter)
}
