package drafting

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/foxzi/lexdraft/internal/metrics"
	"github.com/fsnotify/fsnotify"
)

// Watcher keeps a registry loaded from a templates file and reloads it when
// the file changes. A file that fails to load leaves the previous registry in
// effect.
type Watcher struct {
	path    string
	current atomic.Pointer[Registry]
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewWatcher loads path and prepares to watch it
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	w := &Watcher{
		path:   filepath.Clean(path),
		logger: logger,
	}
	if err := w.Reload(); err != nil {
		return nil, err
	}
	return w, nil
}

// Current returns the registry in effect
func (w *Watcher) Current() *Registry {
	return w.current.Load()
}

// Reload re-reads the templates file
func (w *Watcher) Reload() error {
	r, err := LoadRegistryFile(w.path)
	if err != nil {
		return err
	}
	w.current.Store(r)
	return nil
}

// Start begins watching the file until ctx is done or Stop is called
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory so editors that replace the file are still seen
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.watcher = fw

	w.wg.Add(1)
	go w.loop(ctx)

	w.logger.Info("watching templates file", "path", w.path)
	return nil
}

// Stop stops watching and waits for the watch loop to exit
func (w *Watcher) Stop() error {
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			err := w.Reload()
			metrics.IncTemplateReload(err)
			if err != nil {
				w.logger.Warn("templates reload failed, keeping previous templates", "path", w.path, "error", err)
				continue
			}
			w.logger.Info("templates reloaded", "path", w.path, "templates", len(w.Current().Names()))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}
