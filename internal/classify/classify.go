// Package classify maps extracted features onto the severity and
// disruption axes using fixed thresholds.
package classify

import "github.com/sipneat/wildfire-narratives/internal/core/domain"

// Severity thresholds in acres.
const (
	MediumSeverityAcres = 100.0
	HighSeverityAcres   = 10000.0
)

// Containment thresholds in percent.
const (
	LowDisruptionContainment    = 90.0
	MediumDisruptionContainment = 50.0
)

// Severity buckets burned area. Unknown acreage is classified low.
func Severity(acreage *float64) domain.Level {
	switch {
	case acreage == nil:
		return domain.LevelLow
	case *acreage < MediumSeverityAcres:
		return domain.LevelLow
	case *acreage < HighSeverityAcres:
		return domain.LevelMedium
	default:
		return domain.LevelHigh
	}
}

// Disruption estimates displacement. Any evacuation signal dominates;
// without one, unknown containment is medium.
func Disruption(containment *float64, hasEvacuation bool) domain.Level {
	switch {
	case hasEvacuation:
		return domain.LevelHigh
	case containment == nil:
		return domain.LevelMedium
	case *containment >= LowDisruptionContainment:
		return domain.LevelLow
	case *containment >= MediumDisruptionContainment:
		return domain.LevelMedium
	default:
		return domain.LevelHigh
	}
}

// Classify places a feature set on both axes.
func Classify(fs domain.FeatureSet) domain.Classification {
	return domain.Classification{
		Severity:   Severity(fs.Acreage),
		Disruption: Disruption(fs.Containment, fs.HasEvacuation),
	}
}
