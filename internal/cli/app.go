package cli

import (
	"os"

	"github.com/amterp/gig/internal/config"
	"github.com/amterp/gig/internal/editor"
	"github.com/amterp/gig/internal/metrics"
	"github.com/amterp/gig/internal/prompt"
	"github.com/amterp/gig/internal/resolver"
	"github.com/amterp/gig/internal/service"
	"github.com/amterp/gig/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// App holds all the dependencies for the CLI.
type App struct {
	Paths          *config.Paths
	Settings       *config.Settings
	SettingsStore  *store.FileSettingsStore
	PayloadStore   *store.FilePayloadStore
	Registry       *prometheus.Registry
	Metrics        *metrics.Metrics
	Store          *service.DataStore
	Prompter       prompt.Prompter
	ClientResolver *resolver.ClientResolver
	OrderResolver  *resolver.OrderResolver
	Editor         *editor.Editor
	Interactive    bool
}

// NewApp creates a new App rooted at the default home directory.
// If interactive is false, uses NoopPrompter that fails on prompts.
func NewApp(interactive bool) (*App, error) {
	var prompter prompt.Prompter
	if interactive {
		prompter = prompt.NewHuhPrompter()
	} else {
		prompter = &prompt.NoopPrompter{}
	}
	return newApp(config.NewPaths(config.DefaultHome(), ""), prompter, interactive)
}

// newApp wires every dependency for the given paths. Loading the dataset
// seeds it on first run.
func newApp(paths *config.Paths, prompter prompt.Prompter, interactive bool) (*App, error) {
	settingsStore := store.NewSettingsStore(paths.SettingsPath())
	settings, err := settingsStore.Load()
	if err != nil {
		return nil, err
	}
	settings.ApplyEnv()
	paths = paths.WithDataLocation(settings.DataLocation)

	payloadStore := store.NewPayloadStore(paths.DataFilePath())
	payload, err := payloadStore.Load()
	if err != nil {
		return nil, err
	}

	statusOrder, err := settings.ParsedStatusOrder()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	ds, err := service.NewDataStore(payload, payloadStore,
		service.WithStatusOrder(statusOrder),
		service.WithCurrency(settings.Currency),
		service.WithMetrics(m),
		service.WithLogger(log.WithField("component", "store")),
	)
	if err != nil {
		return nil, err
	}

	visible, err := settings.ParsedVisibleStatuses()
	if err != nil {
		log.WithError(err).Warn("Ignoring invalid visible_statuses in settings")
	} else {
		ds.SetSelectedStatuses(visible)
	}

	return &App{
		Paths:          paths,
		Settings:       settings,
		SettingsStore:  settingsStore,
		PayloadStore:   payloadStore,
		Registry:       registry,
		Metrics:        m,
		Store:          ds,
		Prompter:       prompter,
		ClientResolver: resolver.NewClientResolver(ds, prompter),
		OrderResolver:  resolver.NewOrderResolver(ds, prompter),
		Editor:         editor.NewEditor(settings),
		Interactive:    interactive,
	}, nil
}

// ClientName returns the display name for a client ID, or the ID itself
// when the client is gone.
func (a *App) ClientName(clientID string) string {
	client, err := a.Store.Client(clientID)
	if err != nil {
		return clientID
	}
	return client.Name
}

// SaveSettings persists the current settings.
func (a *App) SaveSettings() error {
	return a.SettingsStore.Save(a.Settings)
}

// Fatal prints an error and exits.
func Fatal(err error) {
	PrintError("%v", err)
	os.Exit(1)
}

// resolvePaths returns the default paths with the configured data location
// applied. Settings errors are ignored so diagnostics still work.
func resolvePaths() *config.Paths {
	paths := config.NewPaths(config.DefaultHome(), "")
	settings, err := store.NewSettingsStore(paths.SettingsPath()).Load()
	if err != nil {
		return paths
	}
	return paths.WithDataLocation(settings.DataLocation)
}
