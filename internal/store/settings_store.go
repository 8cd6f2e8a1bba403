package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/amterp/gig/internal/config"
	"github.com/amterp/gig/internal/version"
)

// FileSettingsStore implements SettingsStore using a TOML file.
type FileSettingsStore struct {
	path string
}

// NewSettingsStore creates a settings store for the file at path.
func NewSettingsStore(path string) *FileSettingsStore {
	return &FileSettingsStore{path: path}
}

// Path returns the settings file location.
func (s *FileSettingsStore) Path() string {
	return s.path
}

// Load reads settings from disk.
// Returns defaults if the file doesn't exist.
func (s *FileSettingsStore) Load() (*config.Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config.DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var settings config.Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	// Hand-written files may omit the schema; a wrong one is rejected.
	if settings.GigSchema != "" && settings.GigSchema != version.CurrentSettingsSchema() {
		return nil, version.InvalidSettingsSchema(s.path, settings.GigSchema)
	}

	settings.Normalize()
	return &settings, nil
}

// Save writes settings to disk.
func (s *FileSettingsStore) Save(settings *config.Settings) error {
	settings.GigSchema = version.CurrentSettingsSchema()

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(settings); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return writeFileAtomic(s.path, buf.Bytes())
}
