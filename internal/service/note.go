package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/normalize"
	"github.com/shelfmark/shelfmark-server/internal/sse"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/validation"
)

// NoteService manages standalone notes.
type NoteService struct {
	store     *store.Store
	validator *validation.Validator
	emitter   EventEmitter
	logger    *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(store *store.Store, validator *validation.Validator, emitter EventEmitter, logger *slog.Logger) *NoteService {
	return &NoteService{
		store:     store,
		validator: validator,
		emitter:   emitter,
		logger:    logger,
	}
}

// CreateNoteRequest is the input for CreateNote.
type CreateNoteRequest struct {
	Title   string   `json:"title" validate:"required,max=500"`
	Content string   `json:"content" validate:"max=100000"`
	Tags    []string `json:"tags" validate:"max=50,dive,max=100"`
	Pinned  bool     `json:"is_pinned"`
	Color   string   `json:"color" validate:"max=50"`
}

// CreateNote creates a standalone note.
func (s *NoteService) CreateNote(ctx context.Context, req *CreateNoteRequest) (*domain.Note, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	noteID, err := id.Generate("note")
	if err != nil {
		return nil, fmt.Errorf("failed to generate note id: %w", err)
	}

	note := domain.NewNote(noteID, req.Title, req.Content, req.Tags)
	note.Pinned = req.Pinned
	note.Color = req.Color

	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.logger.Debug("created note", "note_id", noteID, "title", note.Title)
	s.emitter.Emit(sse.NewNoteCreatedEvent(note))
	return note, nil
}

// GetNote retrieves a note by ID.
func (s *NoteService) GetNote(ctx context.Context, noteID string) (*domain.Note, error) {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return nil, domainerrors.NotFoundf("note %s not found", noteID)
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// UpdateNoteRequest is the input for UpdateNote. The whole note is
// replaced; clients send the full document.
type UpdateNoteRequest struct {
	Title   string   `json:"title" validate:"required,max=500"`
	Content string   `json:"content" validate:"max=100000"`
	Tags    []string `json:"tags" validate:"max=50,dive,max=100"`
	Pinned  bool     `json:"is_pinned"`
	Color   string   `json:"color" validate:"max=50"`
}

// UpdateNote replaces an existing note's content.
func (s *NoteService) UpdateNote(ctx context.Context, noteID string, req *UpdateNoteRequest) (*domain.Note, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	note, err := s.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	note.Title = req.Title
	note.Content = req.Content
	note.Tags = req.Tags
	note.Pinned = req.Pinned
	note.Color = req.Color
	note.Touch()

	if err := s.store.UpdateNote(ctx, note); err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return nil, domainerrors.NotFoundf("note %s not found", noteID)
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	s.emitter.Emit(sse.NewNoteUpdatedEvent(note))
	return note, nil
}

// DeleteNote removes a note. Idempotent.
func (s *NoteService) DeleteNote(ctx context.Context, noteID string) error {
	if err := s.store.DeleteNote(ctx, noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.emitter.Emit(sse.NewNoteDeletedEvent(noteID))
	return nil
}

// ListNotes returns notes pinned-first, most recently updated first.
// A non-empty query filters by case-insensitive substring match over
// title, content, and tags.
func (s *NoteService) ListNotes(ctx context.Context, query string) ([]*domain.Note, error) {
	notes, err := s.store.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	if query == "" {
		return notes, nil
	}

	filtered := slices.DeleteFunc(notes, func(n *domain.Note) bool {
		return !noteMatches(n, query)
	})
	return filtered, nil
}

// noteMatches reports whether a note matches the search query in its
// title, content, or any tag. Matching uses Unicode case folding.
func noteMatches(n *domain.Note, query string) bool {
	if normalize.ContainsFold(n.Title, query) || normalize.ContainsFold(n.Content, query) {
		return true
	}
	for _, tag := range n.Tags {
		if normalize.ContainsFold(tag, query) {
			return true
		}
	}
	return false
}
