// Package hashing provides a deterministic, offline embedding service.
//
// Text is tokenised, stop words are dropped and each remaining token is
// hashed into one of a fixed number of signed buckets (the hashing
// trick). Passages use sublinear term-frequency weights and queries use
// binary weights, giving the two encoding modes the same vector space.
// It needs no network and no model download, so it backs offline runs
// and tests.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/sipneat/wildfire-narratives/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultDimensions = 1024
	ModelName         = "hashing-v1"
)

var tokenPattern = regexp.MustCompile(`\p{L}+|\p{N}+`)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "in": {}, "is": {}, "it": {}, "may": {}, "of": {}, "on": {},
	"or": {}, "the": {}, "to": {}, "with": {}, "any": {}, "keep": {},
}

// EmbeddingService embeds text by feature hashing.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a hashing embedder. dimensions <= 0 uses the default.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// EmbedPassages encodes documents with term-frequency weights.
func (s *EmbeddingService) EmbedPassages(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = s.encode(text, false)
	}
	return out, nil
}

// EmbedQuery encodes a query with binary weights.
func (s *EmbeddingService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.encode(text, true), nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

func (s *EmbeddingService) encode(text string, binary bool) []float32 {
	counts := make(map[string]int)
	for _, tok := range Tokenize(text) {
		counts[tok]++
	}

	vec := make([]float64, s.dimensions)
	for tok, n := range counts {
		weight := 1.0
		if !binary {
			weight = 1 + math.Log(float64(n))
		}
		bucket, sign := s.bucket(tok)
		vec[bucket] += sign * weight
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, s.dimensions)
	if norm == 0 {
		return out
	}
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out
}

func (s *EmbeddingService) bucket(tok string) (int, float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(tok))
	sum := h.Sum64()
	sign := 1.0
	if sum&(1<<63) != 0 {
		sign = -1.0
	}
	return int(sum % uint64(s.dimensions)), sign
}

// Tokenize lower-cases text, splits it into letter and digit runs, drops
// stop words and strips a plural "s".
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if len(tok) > 3 && strings.HasSuffix(tok, "s") && !strings.HasSuffix(tok, "ss") {
			tok = tok[:len(tok)-1]
		}
		out = append(out, tok)
	}
	return out
}
