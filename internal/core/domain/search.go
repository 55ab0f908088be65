package domain

// DefaultSearchLimit is the number of matches returned when no limit is given.
const DefaultSearchLimit = 3

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results (K).
	Limit int
}

// SearchResult represents a single nearest-neighbour match.
type SearchResult struct {
	// ID is the vector identifier.
	ID string

	// Score is the similarity score. Higher is closer.
	Score float64

	// Metadata is the stored narrative metadata.
	Metadata Metadata
}

// Narrative returns the stored narrative text.
func (r SearchResult) Narrative() string {
	return r.Metadata[MetaText]
}

// Severity returns the stored severity level.
func (r SearchResult) Severity() Level {
	return Level(r.Metadata[MetaSeverity])
}

// Disruption returns the stored disruption level.
func (r SearchResult) Disruption() Level {
	return Level(r.Metadata[MetaDisruption])
}

// SourceFile returns the file the narrative was generated from.
func (r SearchResult) SourceFile() string {
	return r.Metadata[MetaSourceFile]
}

// ExampleQueries are starting points that exercise different severity and
// disruption profiles.
var ExampleQueries = []string{
	"wildfires with long recovery timelines",
	"fires needing emergency housing and shelter",
	"small contained fires with minimal damage",
	"FEMA assistance and insurance claims",
	"high disruption with evacuation orders",
}
