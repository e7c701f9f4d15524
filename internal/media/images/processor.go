package images

import (
	"fmt"
	"log/slog"
)

// Processor stores extracted cover images and derives their BlurHash
// placeholders.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	return &Processor{
		storage: storage,
		logger:  logger,
	}
}

// Process saves raw cover data for a book and returns the stored path
// and its BlurHash. A cover that cannot be decoded still gets saved;
// the BlurHash is then empty.
func (p *Processor) Process(bookID string, data []byte) (coverPath, blurHash string, err error) {
	if err := p.storage.Save(bookID, data); err != nil {
		return "", "", fmt.Errorf("failed to save cover: %w", err)
	}

	coverPath = p.storage.Path(bookID)

	blurHash, err = ComputeBlurHash(coverPath)
	if err != nil {
		p.logger.Warn("failed to compute cover blurhash",
			"book_id", bookID,
			"error", err,
		)
		return coverPath, "", nil
	}

	p.logger.Debug("stored cover",
		"book_id", bookID,
		"size", len(data),
		"blurhash", blurHash,
	)
	return coverPath, blurHash, nil
}

// Remove deletes a book's stored cover. Idempotent.
func (p *Processor) Remove(bookID string) error {
	return p.storage.Delete(bookID)
}
