package config

import (
	"os"
	"path/filepath"
)

const (
	AppDirName     = "gig"
	DataFileName   = "gig.json"
	ConfigFileName = "config.toml"

	EnvHome     = "GIG_HOME"
	EnvCurrency = "GIG_CURRENCY"
	EnvEnvFile  = "GIG_ENV_FILE"
	EnvLogLevel = "GIG_LOG_LEVEL"
)

// Paths provides path resolution for gig's per-install files.
type Paths struct {
	home         string
	dataLocation string // Custom location from settings, empty for default
}

// NewPaths creates a new Paths resolver rooted at home.
func NewPaths(home string, dataLocation string) *Paths {
	return &Paths{
		home:         home,
		dataLocation: dataLocation,
	}
}

// Home returns the root directory for gig's files.
func (p *Paths) Home() string {
	return p.home
}

// WithDataLocation returns a copy using the given data location override.
func (p *Paths) WithDataLocation(dataLocation string) *Paths {
	return NewPaths(p.home, dataLocation)
}

// DataDir returns the directory holding the data file.
// A relative data location is resolved against Home.
func (p *Paths) DataDir() string {
	if p.dataLocation == "" {
		return p.home
	}
	if filepath.IsAbs(p.dataLocation) {
		return p.dataLocation
	}
	return filepath.Join(p.home, p.dataLocation)
}

// DataFilePath returns the path of the dataset file.
func (p *Paths) DataFilePath() string {
	return filepath.Join(p.DataDir(), DataFileName)
}

// SettingsPath returns the path to the settings file.
func (p *Paths) SettingsPath() string {
	return filepath.Join(p.home, ConfigFileName)
}

// DefaultHome returns $GIG_HOME, or the OS user config dir + "gig".
// Falls back to ~/.gig when no config dir is available.
func DefaultHome() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppDirName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "."+AppDirName)
	}
	return "." + AppDirName
}
