package api

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// debounceDelay coalesces bursts of events for the same file.
const debounceDelay = 100 * time.Millisecond

// FileChangeType indicates what type of change occurred.
type FileChangeType string

const (
	FileChangeCreated  FileChangeType = "created"
	FileChangeModified FileChangeType = "modified"
	FileChangeDeleted  FileChangeType = "deleted"
)

// FileChange represents a change to a watched file.
type FileChange struct {
	Type FileChangeType `json:"type"`
	Path string         `json:"path"`
}

// FileWatcherSubscriber receives file change notifications.
type FileWatcherSubscriber interface {
	OnFileChange(change FileChange)
}

// FileWatcher watches a single file for changes made by other processes.
// It watches the parent directory because atomic saves replace the file,
// which would drop a watch placed on the file itself.
type FileWatcher struct {
	watcher     *fsnotify.Watcher
	dir         string
	fileName    string
	mu          sync.RWMutex
	subscribers []FileWatcherSubscriber
	debounce    map[string]*time.Timer
	debounceMu  sync.Mutex
	stopCh      chan struct{}
	stopped     bool // Once stopped, cannot restart
	running     bool
}

// NewFileWatcher creates a watcher for the file at path.
func NewFileWatcher(path string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		watcher:  watcher,
		dir:      filepath.Dir(path),
		fileName: filepath.Base(path),
		debounce: make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
	}, nil
}

// Subscribe adds a subscriber to receive file change notifications.
func (fw *FileWatcher) Subscribe(sub FileWatcherSubscriber) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.subscribers = append(fw.subscribers, sub)
}

// Start begins watching.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return nil
	}
	if fw.stopped {
		fw.mu.Unlock()
		return fmt.Errorf("file watcher cannot be restarted after stop")
	}
	fw.running = true
	fw.mu.Unlock()

	if err := fw.watcher.Add(fw.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", fw.dir, err)
	}

	go fw.run()
	return nil
}

// Stop stops watching for changes.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if !fw.running || fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.running = false
	fw.stopped = true
	fw.mu.Unlock()

	// Pending timers must not fire after stop
	fw.debounceMu.Lock()
	for path, timer := range fw.debounce {
		timer.Stop()
		delete(fw.debounce, path)
	}
	fw.debounceMu.Unlock()

	close(fw.stopCh)
	return fw.watcher.Close()
}

func (fw *FileWatcher) run() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("File watcher error")

		case <-fw.stopCh:
			return
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	base := filepath.Base(event.Name)
	if base != fw.fileName || strings.HasPrefix(base, ".") {
		return
	}

	fw.debounceMu.Lock()
	if timer, exists := fw.debounce[event.Name]; exists {
		timer.Stop()
	}
	fw.debounce[event.Name] = time.AfterFunc(debounceDelay, func() {
		fw.emitChange(event)
		fw.debounceMu.Lock()
		delete(fw.debounce, event.Name)
		fw.debounceMu.Unlock()
	})
	fw.debounceMu.Unlock()
}

func (fw *FileWatcher) emitChange(event fsnotify.Event) {
	// Debounce timer may fire after Stop
	fw.mu.RLock()
	if fw.stopped {
		fw.mu.RUnlock()
		return
	}
	subs := make([]FileWatcherSubscriber, len(fw.subscribers))
	copy(subs, fw.subscribers)
	fw.mu.RUnlock()

	change, ok := classifyChange(event)
	if !ok {
		return
	}
	for _, sub := range subs {
		sub.OnFileChange(change)
	}
}

func classifyChange(event fsnotify.Event) (FileChange, bool) {
	change := FileChange{Path: event.Name}
	switch {
	case event.Op&fsnotify.Create != 0:
		change.Type = FileChangeCreated
	case event.Op&fsnotify.Write != 0:
		change.Type = FileChangeModified
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		change.Type = FileChangeDeleted
	default:
		return FileChange{}, false
	}
	return change, true
}
