package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates a value that cannot be parsed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or backend type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoData indicates loading produced zero records across all source files.
	ErrNoData = errors.New("no data loaded")

	// Configuration Errors.

	// ErrMissingCredential indicates a required API key is not configured.
	// It is raised before any data work begins.
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidConfig indicates a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid configuration")

	// External Service Errors.

	// ErrEmbeddingUnavailable indicates the embedding service cannot be reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index cannot be reached or opened.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrEmbedding indicates the embedding service returned a failure.
	ErrEmbedding = errors.New("embedding failed")

	// ErrIndex indicates the vector index returned a failure.
	ErrIndex = errors.New("vector index request failed")

	// ErrDimensionMismatch indicates a vector does not match the index dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// CredentialError names the environment variable that must be set.
// It unwraps to ErrMissingCredential.
type CredentialError struct {
	EnvVar string
}

func (e *CredentialError) Error() string {
	return e.EnvVar + " not set. Run: export " + e.EnvVar + "='your_key_here'"
}

// Unwrap returns ErrMissingCredential.
func (e *CredentialError) Unwrap() error {
	return ErrMissingCredential
}
