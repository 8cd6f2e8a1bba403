package api

import (
	log "github.com/sirupsen/logrus"
)

// Reloadable re-reads its state from disk. service.DataStore satisfies it.
type Reloadable interface {
	Reload() error
}

// DataReloader reloads the data store when the data file changes on disk.
type DataReloader struct {
	target Reloadable
}

// NewDataReloader creates a FileWatcherSubscriber that reloads target.
// The target skips content it wrote itself, so its own saves are no-ops.
func NewDataReloader(target Reloadable) *DataReloader {
	return &DataReloader{target: target}
}

// OnFileChange implements FileWatcherSubscriber.
func (r *DataReloader) OnFileChange(change FileChange) {
	// Nothing to adopt until the file is written again.
	if change.Type == FileChangeDeleted {
		return
	}
	if err := r.target.Reload(); err != nil {
		log.WithError(err).WithField("path", change.Path).Warn("Failed to reload data file")
	}
}
