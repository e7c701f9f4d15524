package store

import (
	"context"
	"errors"
	"slices"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// CreateNote persists a new standalone note.
func (s *Store) CreateNote(ctx context.Context, note *domain.Note) error {
	return s.Notes.Create(ctx, note.ID, note)
}

// GetNote retrieves a note by ID.
func (s *Store) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	note, err := s.Notes.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateNote replaces an existing note.
func (s *Store) UpdateNote(ctx context.Context, note *domain.Note) error {
	err := s.Notes.Update(ctx, note.ID, note)
	if errors.Is(err, ErrNotFound) {
		return ErrNoteNotFound
	}
	return err
}

// DeleteNote removes a note. Idempotent.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	return s.Notes.Delete(ctx, id)
}

// ListNotes returns every note, pinned notes first, most recently
// updated first within each group.
func (s *Store) ListNotes(ctx context.Context) ([]*domain.Note, error) {
	notes := make([]*domain.Note, 0)
	for note, err := range s.Notes.List(ctx) {
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	slices.SortFunc(notes, func(a, b *domain.Note) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return notes, nil
}
