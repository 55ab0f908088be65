package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

func recordingServer(t *testing.T, inputs *[][]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)

		var req embedRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		*inputs = append(*inputs, req.Input)

		resp := embedResponse{}
		for _, in := range req.Input {
			resp.Embeddings = append(resp.Embeddings, []float64{float64(len(in)), 0.5, 0.25})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultPassagePrefix, svc.passagePrefix)
	assert.Equal(t, DefaultQueryPrefix, svc.queryPrefix)
	assert.NoError(t, svc.Close())
}

func TestEmbed_AsymmetricPrefixes(t *testing.T) {
	var inputs [][]string
	server := recordingServer(t, &inputs)
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, Dimensions: 3, BatchSize: 2})

	passages, err := svc.EmbedPassages(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, passages, 3)
	assert.Equal(t, float32(len("search_document: three")), passages[2][0])

	_, err = svc.EmbedQuery(context.Background(), "evacuation")
	require.NoError(t, err)

	require.Len(t, inputs, 3)
	assert.Equal(t, []string{"search_document: one", "search_document: two"}, inputs[0])
	assert.Equal(t, []string{"search_document: three"}, inputs[1])
	assert.Equal(t, []string{"search_query: evacuation"}, inputs[2])
}

func TestEmbed_NoPrefixes(t *testing.T) {
	var inputs [][]string
	server := recordingServer(t, &inputs)
	defer server.Close()

	empty := ""
	svc := NewEmbeddingService(Config{
		BaseURL:       server.URL,
		Dimensions:    3,
		PassagePrefix: &empty,
		QueryPrefix:   &empty,
	})

	_, err := svc.EmbedQuery(context.Background(), "plain")
	require.NoError(t, err)
	assert.Equal(t, []string{"plain"}, inputs[0])
}

func TestEmbed_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		target  error
		message string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model not found", http.StatusNotFound)
			},
			target:  domain.ErrEmbedding,
			message: "model not found",
		},
		{
			name: "wrong dimensions",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"embeddings":[[1,2]]}`))
			},
			target: domain.ErrDimensionMismatch,
		},
		{
			name: "count mismatch",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"embeddings":[]}`))
			},
			target: domain.ErrEmbedding,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"embeddings":`))
			},
			target: domain.ErrEmbedding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			svc := NewEmbeddingService(Config{BaseURL: server.URL, Dimensions: 3})
			_, err := svc.EmbedQuery(context.Background(), "q")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), err.Error())
			if tt.message != "" {
				assert.True(t, strings.Contains(err.Error(), tt.message))
			}
		})
	}
}

func TestEmbed_ServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	svc := NewEmbeddingService(Config{BaseURL: url, Dimensions: 3})
	_, err := svc.EmbedQuery(context.Background(), "q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmbedding))
	assert.True(t, errors.Is(err, domain.ErrEmbeddingUnavailable))
}
