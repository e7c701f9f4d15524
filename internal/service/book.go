package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/epub"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/library"
	"github.com/shelfmark/shelfmark-server/internal/media/images"
	"github.com/shelfmark/shelfmark-server/internal/sse"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// BookService handles the library: import, lookup, deletion, and
// reading progress.
type BookService struct {
	store   *store.Store
	library *library.Manager
	covers  *images.Processor
	emitter EventEmitter
	logger  *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(
	store *store.Store,
	library *library.Manager,
	covers *images.Processor,
	emitter EventEmitter,
	logger *slog.Logger,
) *BookService {
	return &BookService{
		store:   store,
		library: library,
		covers:  covers,
		emitter: emitter,
		logger:  logger,
	}
}

// ImportBook saves an uploaded EPUB into the books directory, extracts
// its metadata and cover, and creates the library record. Only EPUB
// uploads are accepted; anything else is rejected and nothing is kept.
func (s *BookService) ImportBook(ctx context.Context, upload *library.Upload) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !strings.EqualFold(filepath.Ext(upload.Filename), ".epub") {
		return nil, domainerrors.Validationf("unsupported file type %q, only .epub is accepted", filepath.Ext(upload.Filename))
	}

	path, size, err := s.library.Save(upload.Filename, upload.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	meta, err := epub.Parse(path)
	if err != nil {
		// Keep the library clean: a rejected upload leaves no file behind.
		if rmErr := s.library.Remove(path); rmErr != nil {
			s.logger.Warn("failed to remove rejected upload", "path", path, "error", rmErr)
		}
		if errors.Is(err, epub.ErrNotEPUB) {
			return nil, domainerrors.Validation("file is not a valid EPUB").WithCause(err)
		}
		return nil, fmt.Errorf("failed to parse epub: %w", err)
	}

	bookID, err := id.Generate("bk")
	if err != nil {
		return nil, fmt.Errorf("failed to generate book id: %w", err)
	}

	title := meta.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	author := meta.Author
	if author == "" {
		author = "Unknown"
	}

	book := domain.NewBook(bookID, title, author, path, size)
	book.Description = meta.Description
	book.TotalChapters = meta.ChapterCount

	if len(meta.Cover) > 0 {
		coverPath, blurHash, err := s.covers.Process(bookID, meta.Cover)
		if err != nil {
			s.logger.Warn("failed to process cover", "book_id", bookID, "error", err)
		} else {
			book.CoverPath = coverPath
			book.CoverHash = blurHash
		}
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		if rmErr := s.library.Remove(path); rmErr != nil {
			s.logger.Warn("failed to remove orphaned upload", "path", path, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to create book record: %w", err)
	}

	s.logger.Info("imported book",
		"book_id", bookID,
		"title", book.Title,
		"author", book.Author,
		"chapters", book.TotalChapters,
		"size", size,
	)

	s.emitter.Emit(sse.NewBookCreatedEvent(book))
	return book, nil
}

// GetBook retrieves a book by ID.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFoundf("book %s not found", bookID)
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

// ListBooks returns the whole library, newest first.
func (s *BookService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// DeleteBook removes a book: its record with all child records, its
// file, and its cover. File removal is best-effort; a record whose file
// already vanished still gets deleted.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return fmt.Errorf("failed to delete book record: %w", err)
	}

	if err := s.library.Remove(book.FilePath); err != nil {
		s.logger.Warn("failed to remove book file", "book_id", bookID, "path", book.FilePath, "error", err)
	}
	if err := s.covers.Remove(bookID); err != nil {
		s.logger.Warn("failed to remove cover", "book_id", bookID, "error", err)
	}

	s.logger.Info("deleted book", "book_id", bookID, "title", book.Title)
	s.emitter.Emit(sse.NewBookDeletedEvent(bookID))
	return nil
}

// GetBookFile returns the on-disk path of a book's EPUB, marking the
// book missing when the file has vanished out-of-band.
func (s *BookService) GetBookFile(ctx context.Context, bookID string) (string, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}

	if !s.library.Exists(book.FilePath) {
		if _, err := s.store.SetBookMissing(ctx, bookID, true); err != nil {
			s.logger.Warn("failed to flag missing book", "book_id", bookID, "error", err)
		}
		return "", domainerrors.NotFoundf("file for book %s is missing", bookID)
	}

	return book.FilePath, nil
}

// MarkOpened stamps the book's last-opened time, for the reader screen.
func (s *BookService) MarkOpened(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.MarkBookOpened(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFoundf("book %s not found", bookID)
		}
		return nil, fmt.Errorf("failed to mark book opened: %w", err)
	}
	return book, nil
}

// GetProgress returns the reading progress projection for a book.
func (s *BookService) GetProgress(ctx context.Context, bookID string) (*domain.ReadingProgress, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return domain.ProgressForBook(book), nil
}

// UpdateProgress records a new reading position and relays it. The
// position is clamped to [0,100] by the store. Implements the renderer
// bridge's progress sink.
func (s *BookService) UpdateProgress(ctx context.Context, bookID string, progress float64) error {
	book, err := s.store.UpdateReadingProgress(ctx, bookID, progress)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return domainerrors.NotFoundf("book %s not found", bookID)
		}
		return fmt.Errorf("failed to update progress: %w", err)
	}

	s.emitter.Emit(sse.NewReadingProgressEvent(bookID, book.ReadingProgress))
	return nil
}

// SetMissingByPath flags or clears the missing marker on whichever book
// owns the given file path. Called by the library watcher; an unknown
// path is ignored, the watcher also sees covers and temp files.
func (s *BookService) SetMissingByPath(ctx context.Context, path string, missing bool) error {
	book, err := s.store.FindBookByPath(ctx, path)
	if errors.Is(err, store.ErrBookNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up book by path: %w", err)
	}

	if book.Missing == missing {
		return nil
	}

	if _, err := s.store.SetBookMissing(ctx, book.ID, missing); err != nil {
		return fmt.Errorf("failed to update missing flag: %w", err)
	}

	s.logger.Info("book file availability changed",
		"book_id", book.ID,
		"path", path,
		"missing", missing,
	)
	s.emitter.Emit(sse.NewBookMissingEvent(book.ID, missing))
	return nil
}
