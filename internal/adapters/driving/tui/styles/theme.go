// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sipneat/wildfire-narratives/internal/core/domain"
)

// Theme defines the colour palette and styling for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary is the secondary accent colour.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Low, Medium and High colour classification badges.
	Low    lipgloss.Color
	Medium lipgloss.Color
	High   lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#F97316"), // Ember
		Secondary:  lipgloss.Color("#FBBF24"), // Amber
		Foreground: lipgloss.Color("#E7E5E4"), // Ash
		Muted:      lipgloss.Color("#78716C"), // Smoke
		Border:     lipgloss.Color("#44403C"),
		Error:      lipgloss.Color("#F38BA8"),
		Low:        lipgloss.Color("#A6E3A1"),
		Medium:     lipgloss.Color("#F9E2AF"),
		High:       lipgloss.Color("#EF4444"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style

	// Pane frames the narrative detail view.
	Pane lipgloss.Style

	low, medium, high lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	badge := lipgloss.NewStyle().Bold(true)

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#1C1917")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Pane: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),

		low:    badge.Foreground(theme.Low),
		medium: badge.Foreground(theme.Medium),
		high:   badge.Foreground(theme.High),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Level returns the badge style for a classification level.
// Unrecognised levels render muted.
func (s *Styles) Level(l domain.Level) lipgloss.Style {
	switch l {
	case domain.LevelLow:
		return s.low
	case domain.LevelMedium:
		return s.medium
	case domain.LevelHigh:
		return s.high
	default:
		return s.Muted
	}
}
