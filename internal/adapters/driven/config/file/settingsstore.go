// Package file provides the TOML-backed settings store kept in the
// user's docq directory.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// SettingsStore persists AppSettings as a TOML file.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSettingsStore creates a settings store under configDir. If
// configDir is empty, defaults to ~/.docq.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".docq")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &SettingsStore{filePath: filepath.Join(configDir, "config.toml")}, nil
}

// Load reads settings from disk. A missing file yields the defaults;
// fields absent from the file keep their default values.
func (s *SettingsStore) Load() (domain.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultAppSettings()

	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("reading settings: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return domain.DefaultAppSettings(), fmt.Errorf("parsing settings: %w", err)
	}
	return settings, nil
}

// Save writes settings to disk. The file is written with 0600 because
// it may hold API keys.
func (s *SettingsStore) Save(settings domain.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// Path returns the location of the backing file.
func (s *SettingsStore) Path() string {
	return s.filePath
}
