// Package watcher monitors the books directory for files disappearing
// or coming back, so library records can be flagged as missing without
// a manual rescan.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Op describes what happened to a watched file.
type Op int

const (
	// OpCreated means a file appeared (created or renamed in).
	OpCreated Op = iota
	// OpRemoved means a file disappeared (deleted or renamed away).
	OpRemoved
)

// String returns a readable name for logging.
func (o Op) String() string {
	if o == OpCreated {
		return "created"
	}
	return "removed"
}

// Event is a change to a file under the watched directory.
type Event struct {
	Path string
	Op   Op
}

// Watcher watches the books directory and reports file removals and
// arrivals.
type Watcher struct {
	fsw    *fsnotify.Watcher
	logger *slog.Logger

	events chan Event

	mu      sync.Mutex
	started bool
}

// New creates a Watcher. Call Watch to register the books directory,
// then Start to begin delivering events.
func New(logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsw:    fsw,
		logger: logger,
		events: make(chan Event, 100),
	}, nil
}

// Watch adds a directory to be monitored. Not recursive; the books
// directory is flat.
func (w *Watcher) Watch(path string) error {
	path = filepath.Clean(path)
	if err := w.fsw.Add(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	w.logger.Debug("watching directory", "path", path)
	return nil
}

// Events returns the channel of file change events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start delivers events until the context is cancelled. Blocks; run it
// in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return fmt.Errorf("watcher already started")
	}
	w.started = true
	w.mu.Unlock()

	w.logger.Info("library watcher starting")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("library watcher stopping")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// handle maps fsnotify operations onto our two event kinds. A rename
// looks like a removal from the watched directory's point of view.
func (w *Watcher) handle(event fsnotify.Event) {
	var op Op
	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		op = OpRemoved
	case event.Op.Has(fsnotify.Create):
		op = OpCreated
	default:
		return
	}

	e := Event{Path: event.Name, Op: op}

	select {
	case w.events <- e:
		w.logger.Debug("file event", "path", e.Path, "op", e.Op.String())
	default:
		w.logger.Warn("event channel full, dropping event",
			"path", e.Path, "op", e.Op.String())
	}
}
