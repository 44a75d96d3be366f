package file

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
	"github.com/custodia-labs/imgsearch/internal/logger"
	"github.com/custodia-labs/imgsearch/internal/pipe"
)

// SettingsLoader builds settings from the current store contents.
type SettingsLoader func() (*domain.AppSettings, error)

// Watcher reloads a ConfigStore whenever its file changes and publishes the
// resulting settings.
type Watcher struct {
	store    *ConfigStore
	load     SettingsLoader
	settings *pipe.Source[domain.AppSettings]
}

// NewWatcher creates a watcher for store. load is called after each reload.
func NewWatcher(store *ConfigStore, load SettingsLoader) *Watcher {
	return &Watcher{
		store:    store,
		load:     load,
		settings: pipe.NewSource[domain.AppSettings](),
	}
}

// Settings publishes settings after every successful reload.
func (w *Watcher) Settings() pipe.Pipe[domain.AppSettings] {
	return w.settings.Pipe()
}

// Run watches until ctx is cancelled. The directory is watched rather than
// the file so that editors which replace the file are followed.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.store.Path())
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Debug("config: watching %s", w.store.Path())

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				w.reload()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config: watcher error: %v", err)
		}
	}
}

// handleEvent reports whether event changed the config file's content.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.store.Path()) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) reload() {
	if err := w.store.Load(); err != nil {
		logger.Warn("config: reload failed: %v", err)
		return
	}

	settings, err := w.load()
	if err != nil {
		logger.Warn("config: settings invalid after reload: %v", err)
		return
	}

	logger.Info("config: reloaded %s (%d listeners)", w.store.Path(), w.settings.Len())
	w.settings.MustPush(*settings)
}
