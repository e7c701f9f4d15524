package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/config"
	"github.com/shelfmark/shelfmark-server/internal/library"
	"github.com/shelfmark/shelfmark-server/internal/logger"
	"github.com/shelfmark/shelfmark-server/internal/media/images"
	"github.com/shelfmark/shelfmark-server/internal/validation"
)

// ProvideCoverStorage provides the book cover storage.
func ProvideCoverStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	covers, err := images.NewStorage(cfg.Storage.DataPath)
	if err != nil {
		return nil, fmt.Errorf("cover storage: %w", err)
	}

	log.Info("Cover storage initialized")
	return covers, nil
}

// ProvideImageProcessor provides the image processor for cover art.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	covers := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(covers, log.Logger), nil
}

// ProvideLibraryManager provides the managed book file storage.
func ProvideLibraryManager(i do.Injector) (*library.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	manager, err := library.NewManager(cfg.Library.BooksPath, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("library manager: %w", err)
	}

	log.Info("Library storage initialized", "path", manager.Path())
	return manager, nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
