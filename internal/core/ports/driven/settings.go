package driven

import "github.com/doqa-labs/docq-cli/internal/core/domain"

// SettingsStore persists application settings.
type SettingsStore interface {
	// Load reads the stored settings, returning defaults when nothing
	// has been saved yet.
	Load() (domain.AppSettings, error)

	// Save persists the settings.
	Save(settings domain.AppSettings) error

	// Path returns the location of the backing file, for display.
	Path() string
}
