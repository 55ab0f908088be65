package driving

import "github.com/sipneat/wildfire-narratives/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get resolves the effective settings: defaults, then the config
	// file, then environment variables.
	Get() (*domain.AppSettings, error)

	// Set writes a single dot-notation key to the config file.
	Set(key string, value any) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Path returns the config file path.
	Path() string
}
