package domain

import "time"

// Metadata keys stored alongside every vector.
const (
	MetaText       = "text"
	MetaSeverity   = "severity"
	MetaDisruption = "disruption"
	MetaAcreage    = "acreage"
	MetaSourceFile = "source_file"
)

// Metadata is the string mapping persisted with a vector.
type Metadata map[string]string

// VectorEntry is the unit persisted in a vector index.
type VectorEntry struct {
	// ID is the stable identifier (doc_0, doc_1, ...).
	ID string

	// Values is the embedding.
	Values []float32

	// Metadata carries the narrative and its classification.
	Metadata Metadata
}

// IndexStats reports the state of a vector index.
type IndexStats struct {
	// Name is the configured index name.
	Name string

	// Dimension is the configured vector size.
	Dimension int

	// Metric is the similarity metric.
	Metric string

	// VectorCount is the number of populated vectors.
	VectorCount int
}

// Populated returns true if the index holds at least one vector.
func (s IndexStats) Populated() bool {
	return s.VectorCount > 0
}

// BuildOptions configures an index build.
type BuildOptions struct {
	// Rebuild forces embedding and upload even when the index is populated.
	Rebuild bool

	// Progress is called after each upserted batch with cumulative counts.
	Progress func(uploaded, total int)
}

// BuildReport summarises an index build.
type BuildReport struct {
	// RunID identifies this build in logs.
	RunID string

	// Skipped is true when a populated index was left untouched.
	Skipped bool

	// ExistingCount is the populated count observed before the build.
	ExistingCount int

	// Events is the number of events offered to the build.
	Events int

	// Unique is the number of distinct narratives.
	Unique int

	// Uploaded is the number of vectors upserted.
	Uploaded int

	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the build took.
func (r BuildReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
