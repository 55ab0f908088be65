package domain

// Level is a categorical bucket shared by severity and disruption.
type Level string

// Available levels.
const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// IsValid returns true if the level is recognised.
func (l Level) IsValid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	default:
		return false
	}
}

// Rank orders levels low < medium < high. Unknown levels rank 0.
func (l Level) Rank() int {
	switch l {
	case LevelLow:
		return 1
	case LevelMedium:
		return 2
	case LevelHigh:
		return 3
	default:
		return 0
	}
}

// String returns the string representation.
func (l Level) String() string {
	return string(l)
}

// AllLevels returns levels in ascending order.
func AllLevels() []Level {
	return []Level{LevelLow, LevelMedium, LevelHigh}
}

// Classification places a record on the severity and disruption axes.
type Classification struct {
	// Severity buckets the burned area.
	Severity Level

	// Disruption estimates displacement and housing impact.
	Disruption Level
}
