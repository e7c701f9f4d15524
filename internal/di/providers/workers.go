package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/config"
	"github.com/shelfmark/shelfmark-server/internal/logger"
	"github.com/shelfmark/shelfmark-server/internal/service"
	"github.com/shelfmark/shelfmark-server/internal/watcher"
)

// LibraryWatcherHandle wraps the books directory watcher with shutdown
// capability.
type LibraryWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *LibraryWatcherHandle) Shutdown() error {
	h.cancel()
	return h.Watcher.Close()
}

// ProvideLibraryWatcher provides the books directory watcher. File
// removals flag the owning book as missing; reappearances clear it.
func ProvideLibraryWatcher(i do.Injector) (*LibraryWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	bookService := do.MustInvoke[*service.BookService](i)

	w, err := watcher.New(log.Logger)
	if err != nil {
		return nil, err
	}

	if err := w.Watch(cfg.Library.BooksPath); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("Library watcher error", "error", err)
		}
	}()

	// Relay file events to the library in the background.
	go func() {
		for {
			select {
			case event := <-w.Events():
				missing := event.Op == watcher.OpRemoved
				if err := bookService.SetMissingByPath(ctx, event.Path, missing); err != nil {
					log.Warn("failed to apply file event",
						"error", err,
						"op", event.Op.String(),
						"path", event.Path,
					)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Library watcher started", "path", cfg.Library.BooksPath)

	return &LibraryWatcherHandle{
		Watcher: w,
		cancel:  cancel,
	}, nil
}
