// Package watch re-runs a handler whenever watched files change on disk.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/transync/foundation/core/error"
	"github.com/msto63/transync/pkg/core/logging"
)

// DefaultDebounce is used when no debounce delay is configured
const DefaultDebounce = 500 * time.Millisecond

// Handler is called once per settled change of a watched file
type Handler func(ctx context.Context, path string) error

// Watcher watches single files. The parent directories are watched so that
// files replaced by rename are still seen.
type Watcher struct {
	files    map[string]bool
	dirs     []string
	debounce time.Duration
	handler  Handler
	logger   *logging.Logger

	ready     chan struct{}
	readyOnce sync.Once
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// New creates a watcher for files. A debounce of zero uses DefaultDebounce.
func New(files []string, debounce time.Duration, handler Handler, logger *logging.Logger) (*Watcher, error) {
	if len(files) == 0 {
		return nil, mdwerror.New("no files to watch").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("watch.New")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		files:    make(map[string]bool),
		debounce: debounce,
		handler:  handler,
		logger:   logger,
		ready:    make(chan struct{}),
		stopCh:   make(chan struct{}),
	}
	seenDir := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, mdwerror.Wrap(err, "resolve watched file").
				WithCode(mdwerror.CodeInvalidInput).
				WithDetail("path", f)
		}
		w.files[abs] = true
		if dir := filepath.Dir(abs); !seenDir[dir] {
			seenDir[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Ready is closed once the watches are in place, or when Run returned
// before getting there. Check Run's error to tell the two apart.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

func (w *Watcher) markReady() {
	w.readyOnce.Do(func() { close(w.ready) })
}

// Stop ends Run
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// Run blocks until ctx is cancelled or Stop is called. Handler errors are
// logged and do not end the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.markReady()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create watcher").
			WithCode(mdwerror.CodeIO).
			WithOperation("watch.Run")
	}
	defer watcher.Close()

	for _, dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			return mdwerror.Wrap(err, "failed to watch directory").
				WithCode(mdwerror.CodeIO).
				WithOperation("watch.Run").
				WithDetail("dir", dir)
		}
	}
	w.markReady()
	w.logger.Info("Started watching for changes", "files", len(w.files), "debounce", w.debounce.String())

	// Pending changes per file, fired after a quiet period
	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping file watcher (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("Stopping file watcher (stop signal)")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.files[filepath.Clean(event.Name)] || event.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debug("File event", "file", event.Name, "op", event.Op.String())
			pending[filepath.Clean(event.Name)] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			for path := range pending {
				delete(pending, path)
				if err := w.handler(ctx, path); err != nil {
					w.logger.Error("Change handler failed", "file", path, "error", err)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}
