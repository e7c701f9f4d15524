package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/validation"
)

// BookmarkService manages bookmarks within books.
type BookmarkService struct {
	store     *store.Store
	books     *BookService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(store *store.Store, books *BookService, validator *validation.Validator, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		store:     store,
		books:     books,
		validator: validator,
		logger:    logger,
	}
}

// AddBookmarkRequest is the input for AddBookmark.
type AddBookmarkRequest struct {
	Position float64 `json:"position" validate:"gte=0,lte=100"`
	Chapter  int     `json:"chapter" validate:"gte=0"`
	Note     string  `json:"note" validate:"max=2000"`
}

// AddBookmark creates a bookmark in a book. The book must exist.
func (s *BookmarkService) AddBookmark(ctx context.Context, bookID string, req *AddBookmarkRequest) (*domain.Bookmark, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Bookmarks must not outlive their book.
	if _, err := s.books.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	bookmarkID, err := id.Generate("bm")
	if err != nil {
		return nil, fmt.Errorf("failed to generate bookmark id: %w", err)
	}

	bookmark := &domain.Bookmark{
		ID:        bookmarkID,
		BookID:    bookID,
		Position:  req.Position,
		Chapter:   req.Chapter,
		Note:      req.Note,
		CreatedAt: time.Now(),
	}

	if err := s.store.AddBookmark(ctx, bookmark); err != nil {
		return nil, fmt.Errorf("failed to add bookmark: %w", err)
	}

	s.logger.Debug("added bookmark", "book_id", bookID, "bookmark_id", bookmarkID)
	return bookmark, nil
}

// ListBookmarks returns a book's bookmarks, oldest first. A book with
// none yields an empty slice; an unknown book is NotFound.
func (s *BookmarkService) ListBookmarks(ctx context.Context, bookID string) ([]*domain.Bookmark, error) {
	if _, err := s.books.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	bookmarks, err := s.store.ListBookmarks(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return bookmarks, nil
}

// DeleteBookmark removes one bookmark. Removing a missing bookmark is a
// no-op.
func (s *BookmarkService) DeleteBookmark(ctx context.Context, bookID, bookmarkID string) error {
	if err := s.store.DeleteBookmark(ctx, bookID, bookmarkID); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}

// ClearBookmarks removes every bookmark of a book.
func (s *BookmarkService) ClearBookmarks(ctx context.Context, bookID string) error {
	if _, err := s.books.GetBook(ctx, bookID); err != nil {
		return err
	}

	if err := s.store.ClearBookmarks(ctx, bookID); err != nil {
		return fmt.Errorf("failed to clear bookmarks: %w", err)
	}

	s.logger.Debug("cleared bookmarks", "book_id", bookID)
	return nil
}

// AddBookNoteRequest is the input for AddBookNote.
type AddBookNoteRequest struct {
	Chapter  int     `json:"chapter" validate:"gte=0"`
	Position float64 `json:"position" validate:"gte=0,lte=100"`
	Text     string  `json:"text" validate:"required,max=5000"`
	Note     string  `json:"note" validate:"max=5000"`
}

// AddBookNote creates an annotation anchored inside a book.
func (s *BookmarkService) AddBookNote(ctx context.Context, bookID string, req *AddBookNoteRequest) (*domain.BookNote, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.books.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	noteID, err := id.Generate("bn")
	if err != nil {
		return nil, fmt.Errorf("failed to generate annotation id: %w", err)
	}

	now := time.Now()
	note := &domain.BookNote{
		ID:        noteID,
		BookID:    bookID,
		Chapter:   req.Chapter,
		Position:  req.Position,
		Text:      req.Text,
		Note:      req.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.AddBookNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to add annotation: %w", err)
	}

	s.logger.Debug("added annotation", "book_id", bookID, "annotation_id", noteID)
	return note, nil
}

// ListBookNotes returns a book's annotations ordered by chapter then
// position.
func (s *BookmarkService) ListBookNotes(ctx context.Context, bookID string) ([]*domain.BookNote, error) {
	if _, err := s.books.GetBook(ctx, bookID); err != nil {
		return nil, err
	}

	notes, err := s.store.ListBookNotes(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list annotations: %w", err)
	}
	return notes, nil
}

// UpdateBookNoteRequest is the input for UpdateBookNote.
type UpdateBookNoteRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
	Note string `json:"note" validate:"max=5000"`
}

// UpdateBookNote replaces the text of an existing annotation.
func (s *BookmarkService) UpdateBookNote(ctx context.Context, bookID, noteID string, req *UpdateBookNoteRequest) (*domain.BookNote, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	note, err := s.store.UpdateBookNote(ctx, bookID, noteID, req.Text, req.Note)
	if err != nil {
		if domainerrors.Is(err, store.ErrBookNoteNotFound) {
			return nil, domainerrors.NotFoundf("annotation %s not found", noteID)
		}
		return nil, fmt.Errorf("failed to update annotation: %w", err)
	}
	return note, nil
}

// DeleteBookNote removes one annotation. Idempotent.
func (s *BookmarkService) DeleteBookNote(ctx context.Context, bookID, noteID string) error {
	if err := s.store.DeleteBookNote(ctx, bookID, noteID); err != nil {
		return fmt.Errorf("failed to delete annotation: %w", err)
	}
	return nil
}
