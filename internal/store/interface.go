package store

import (
	"github.com/amterp/gig/internal/config"
	"github.com/amterp/gig/internal/model"
)

// PayloadStore handles dataset persistence.
type PayloadStore interface {
	Load() (*model.Payload, error)
	Save(payload *model.Payload) error
	Seed() (*model.Payload, error)
	Clear() error
}

// SettingsStore handles settings persistence.
type SettingsStore interface {
	Load() (*config.Settings, error)
	Save(settings *config.Settings) error
}
