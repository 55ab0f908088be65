// Package pinecone provides a driven.VectorIndex backed by a Pinecone
// serverless index, spoken to over its REST API.
//
// The control plane (api.pinecone.io) is used to describe and create the
// index; every vector operation goes to the index's own data-plane host,
// resolved on first use.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driven"
	"github.com/sipneat/wildfire-narratives/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// APIKeyEnv is the environment variable holding the API key.
const APIKeyEnv = "PINECONE_API_KEY"

// Default configuration values.
const (
	DefaultControlURL   = "https://api.pinecone.io"
	DefaultAPIVersion   = "2025-04"
	DefaultTimeout      = 30 * time.Second
	DefaultReadyTimeout = 2 * time.Minute
	DefaultPollInterval = 2 * time.Second
)

// DefaultBackoffs are the waits between retries of a 429 or 5xx response.
var DefaultBackoffs = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// Config holds configuration for the Pinecone index.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// ControlURL is the control-plane base URL (default: https://api.pinecone.io).
	ControlURL string

	// APIVersion is sent as X-Pinecone-API-Version.
	APIVersion string

	// Name, Dimension and Metric describe the index. Dimension is required.
	Name      string
	Dimension int
	Metric    string

	// Cloud and Region place the index when it has to be created.
	Cloud  string
	Region string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// ReadyTimeout bounds the wait for a newly created index (default: 2m).
	ReadyTimeout time.Duration

	// PollInterval is the wait between readiness checks (default: 2s).
	PollInterval time.Duration

	// RateLimit paces requests. Zero means unlimited.
	RateLimit rate.Limit

	// Backoffs overrides the retry schedule.
	Backoffs []time.Duration
}

// Index is a Pinecone serverless index.
type Index struct {
	client       *http.Client
	limiter      *rate.Limiter
	controlURL   string
	apiKey       string
	apiVersion   string
	name         string
	dimension    int
	metric       string
	cloud        string
	region       string
	readyTimeout time.Duration
	pollInterval time.Duration
	backoffs     []time.Duration

	mu   sync.Mutex
	host string
}

// New creates a Pinecone index client. No request is made until the
// first operation. It fails with a credential error when no API key is
// configured.
func New(cfg Config) (*Index, error) {
	if cfg.APIKey == "" {
		return nil, &domain.CredentialError{EnvVar: APIKeyEnv}
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("pinecone: %w: dimension must be positive", domain.ErrInvalidConfig)
	}
	if cfg.ControlURL == "" {
		cfg.ControlURL = DefaultControlURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Name == "" {
		cfg.Name = domain.DefaultIndexName
	}
	if cfg.Metric == "" {
		cfg.Metric = domain.DefaultMetric
	}
	if cfg.Cloud == "" {
		cfg.Cloud = domain.DefaultCloud
	}
	if cfg.Region == "" {
		cfg.Region = domain.DefaultRegion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ReadyTimeout == 0 {
		cfg.ReadyTimeout = DefaultReadyTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = rate.Inf
	}
	if cfg.Backoffs == nil {
		cfg.Backoffs = DefaultBackoffs
	}

	return &Index{
		client:       &http.Client{Timeout: cfg.Timeout},
		limiter:      rate.NewLimiter(cfg.RateLimit, 1),
		controlURL:   strings.TrimRight(cfg.ControlURL, "/"),
		apiKey:       cfg.APIKey,
		apiVersion:   cfg.APIVersion,
		name:         cfg.Name,
		dimension:    cfg.Dimension,
		metric:       cfg.Metric,
		cloud:        cfg.Cloud,
		region:       cfg.Region,
		readyTimeout: cfg.ReadyTimeout,
		pollInterval: cfg.PollInterval,
		backoffs:     cfg.Backoffs,
	}, nil
}

// ==================== Wire Types ====================

type indexDescription struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Host      string `json:"host"`
	Status    struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

type createIndexRequest struct {
	Name      string    `json:"name"`
	Dimension int       `json:"dimension"`
	Metric    string    `json:"metric"`
	Spec      indexSpec `json:"spec"`
}

type indexSpec struct {
	Serverless serverlessSpec `json:"serverless"`
}

type serverlessSpec struct {
	Cloud  string `json:"cloud"`
	Region string `json:"region"`
}

type statsResponse struct {
	Dimension        int `json:"dimension"`
	TotalVectorCount int `json:"totalVectorCount"`
}

type wireVector struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors []wireVector `json:"vectors"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	IncludeValues   bool      `json:"includeValues"`
}

type queryResponse struct {
	Matches []struct {
		ID       string         `json:"id"`
		Score    float64        `json:"score"`
		Metadata map[string]any `json:"metadata"`
	} `json:"matches"`
}

// ==================== Vector Index ====================

// Stats reports the index description and vector count, creating the
// index first if it does not exist.
func (i *Index) Stats(ctx context.Context) (domain.IndexStats, error) {
	host, err := i.ensure(ctx)
	if err != nil {
		return domain.IndexStats{}, err
	}

	var out statsResponse
	if err := i.do(ctx, http.MethodPost, host+"/describe_index_stats", struct{}{}, &out); err != nil {
		return domain.IndexStats{}, fmt.Errorf("pinecone: describe index stats: %w", err)
	}

	dim := out.Dimension
	if dim == 0 {
		dim = i.dimension
	}
	return domain.IndexStats{
		Name:        i.name,
		Dimension:   dim,
		Metric:      i.metric,
		VectorCount: out.TotalVectorCount,
	}, nil
}

// Upsert writes entries in one request. Callers batch.
func (i *Index) Upsert(ctx context.Context, entries []domain.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if len(e.Values) != i.dimension {
			return fmt.Errorf("pinecone: %s: %w: got %d, want %d",
				e.ID, domain.ErrDimensionMismatch, len(e.Values), i.dimension)
		}
	}

	host, err := i.ensure(ctx)
	if err != nil {
		return err
	}

	req := upsertRequest{Vectors: make([]wireVector, len(entries))}
	for n, e := range entries {
		req.Vectors[n] = wireVector{ID: e.ID, Values: e.Values, Metadata: e.Metadata}
	}

	var out upsertResponse
	if err := i.do(ctx, http.MethodPost, host+"/vectors/upsert", req, &out); err != nil {
		return fmt.Errorf("pinecone: upsert: %w", err)
	}
	if out.UpsertedCount != len(entries) {
		logger.Debug("pinecone: upserted %d of %d vectors", out.UpsertedCount, len(entries))
	}
	return nil
}

// Query returns the k nearest entries with their metadata.
func (i *Index) Query(ctx context.Context, vector []float32, k int) ([]domain.SearchResult, error) {
	if len(vector) != i.dimension {
		return nil, fmt.Errorf("pinecone: query: %w: got %d, want %d",
			domain.ErrDimensionMismatch, len(vector), i.dimension)
	}

	host, err := i.ensure(ctx)
	if err != nil {
		return nil, err
	}

	var out queryResponse
	req := queryRequest{Vector: vector, TopK: k, IncludeMetadata: true}
	if err := i.do(ctx, http.MethodPost, host+"/query", req, &out); err != nil {
		return nil, fmt.Errorf("pinecone: query: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(out.Matches))
	for _, m := range out.Matches {
		results = append(results, domain.SearchResult{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: stringMetadata(m.Metadata),
		})
	}
	return results, nil
}

// Close releases resources.
func (i *Index) Close() error {
	i.client.CloseIdleConnections()
	return nil
}

// ==================== Control Plane ====================

// ensure resolves the data-plane host, creating the index and waiting
// for it to become ready when it does not exist yet.
func (i *Index) ensure(ctx context.Context) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.host != "" {
		return i.host, nil
	}

	desc, found, err := i.describe(ctx)
	if err != nil {
		return "", err
	}
	if !found {
		logger.Info("Creating Pinecone index %q (%d dims, %s)", i.name, i.dimension, i.metric)
		if err := i.create(ctx); err != nil {
			return "", err
		}
	} else if desc.Dimension != 0 && desc.Dimension != i.dimension {
		return "", fmt.Errorf("pinecone: index %q: %w: index has %d, embeddings have %d",
			i.name, domain.ErrDimensionMismatch, desc.Dimension, i.dimension)
	}

	if !found || !desc.Status.Ready || desc.Host == "" {
		desc, err = i.waitReady(ctx)
		if err != nil {
			return "", err
		}
	}

	i.host = hostURL(desc.Host)
	logger.Debug("pinecone: index %q at %s", i.name, i.host)
	return i.host, nil
}

func (i *Index) describe(ctx context.Context) (*indexDescription, bool, error) {
	var desc indexDescription
	err := i.do(ctx, http.MethodGet, i.controlURL+"/indexes/"+i.name, nil, &desc)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("pinecone: describe index %q: %w", i.name, err)
	}
	return &desc, true, nil
}

func (i *Index) create(ctx context.Context) error {
	req := createIndexRequest{
		Name:      i.name,
		Dimension: i.dimension,
		Metric:    i.metric,
		Spec:      indexSpec{Serverless: serverlessSpec{Cloud: i.cloud, Region: i.region}},
	}
	err := i.do(ctx, http.MethodPost, i.controlURL+"/indexes", req, nil)
	if err != nil && !isStatus(err, http.StatusConflict) {
		return fmt.Errorf("pinecone: create index %q: %w", i.name, err)
	}
	return nil
}

func (i *Index) waitReady(ctx context.Context) (*indexDescription, error) {
	ctx, cancel := context.WithTimeout(ctx, i.readyTimeout)
	defer cancel()

	for {
		desc, found, err := i.describe(ctx)
		if err != nil {
			return nil, err
		}
		if found && desc.Status.Ready && desc.Host != "" {
			return desc, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("pinecone: index %q not ready: %w: %w", i.name, domain.ErrIndex, ctx.Err())
		case <-time.After(i.pollInterval):
		}
	}
}

// ==================== Transport ====================

// statusError is returned for non-2xx responses that are not retried.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func isStatus(err error, code int) bool {
	var se *statusError
	return errors.As(err, &se) && se.Code == code
}

// do sends a JSON request, retrying 429 and 5xx responses. A nil out
// discards the response body.
func (i *Index) do(ctx context.Context, method, url string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= len(i.backoffs); attempt++ {
		if err := i.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Api-Key", i.apiKey)
		req.Header.Set("X-Pinecone-API-Version", i.apiVersion)
		req.Header.Set("Accept", "application/json")
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := i.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("request cancelled: %w", ctx.Err())
			}
			return fmt.Errorf("%w: %w: send request: %v", domain.ErrIndex, domain.ErrVectorIndexUnavailable, err)
		}
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("%w: read response: %v", domain.ErrIndex, err)
		}

		var delay time.Duration
		if attempt < len(i.backoffs) {
			delay = i.backoffs[attempt]
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if out == nil || len(respBody) == 0 {
				return nil
			}
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("%w: decode response: %v", domain.ErrIndex, err)
			}
			return nil
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("%w: %w: %w", domain.ErrIndex, domain.ErrRateLimited,
				&statusError{Code: resp.StatusCode, Body: string(respBody)})
			if ra := retryAfter(resp.Header.Get("Retry-After")); ra > 0 {
				delay = ra
			}
		case resp.StatusCode >= http.StatusInternalServerError:
			lastErr = fmt.Errorf("%w: %w", domain.ErrIndex, &statusError{Code: resp.StatusCode, Body: string(respBody)})
		default:
			return fmt.Errorf("%w: %w", domain.ErrIndex, &statusError{Code: resp.StatusCode, Body: string(respBody)})
		}

		if attempt == len(i.backoffs) {
			break
		}
		logger.Debug("pinecone: attempt %d failed, retrying in %s: %v", attempt+1, delay, lastErr)
		select {
		case <-ctx.Done():
			return fmt.Errorf("request cancelled during retry: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("all retries exhausted: %w", lastErr)
}

func retryAfter(header string) time.Duration {
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return 0
	}
	return min(time.Duration(seconds)*time.Second, 30*time.Second)
}

// hostURL turns a bare data-plane host into a base URL.
func hostURL(host string) string {
	host = strings.TrimRight(host, "/")
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "https://" + host
}

// stringMetadata flattens returned metadata to strings.
func stringMetadata(in map[string]any) domain.Metadata {
	out := make(domain.Metadata, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
