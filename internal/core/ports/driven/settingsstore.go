package driven

import "github.com/atheneum-labs/passage/internal/core/domain"

// SettingsStore loads and persists the engine configuration.
type SettingsStore interface {
	// Load reads the stored settings with defaults applied for
	// anything unset. A missing settings file is not an error; it
	// yields the defaults.
	Load() (domain.Settings, error)

	// Save writes the settings.
	Save(settings domain.Settings) error

	// Path returns the location of the settings file, for display.
	Path() string
}
