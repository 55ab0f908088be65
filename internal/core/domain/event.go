package domain

// Event is a record carried through the narrative pipeline.
// Each stage fills in its own attribute and leaves the others alone.
type Event struct {
	Record         Record
	Label          string
	Features       FeatureSet
	Classification Classification
	Narrative      string
}

// Distribution counts events per level.
type Distribution map[Level]int

// SeverityDistribution counts events by severity.
func SeverityDistribution(events []Event) Distribution {
	d := make(Distribution, 3)
	for i := range events {
		d[events[i].Classification.Severity]++
	}
	return d
}

// DisruptionDistribution counts events by disruption.
func DisruptionDistribution(events []Event) Distribution {
	d := make(Distribution, 3)
	for i := range events {
		d[events[i].Classification.Disruption]++
	}
	return d
}
