package store

import (
	"cmp"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// AddBookNote persists an annotation under its owning book's key scope.
func (s *Store) AddBookNote(ctx context.Context, note *domain.BookNote) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("failed to marshal book note: %w", err)
	}

	key := bookNoteKey(note.BookID, note.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// ListBookNotes returns all annotations for a book ordered by chapter,
// then position. Returns an empty slice when the book has none.
func (s *Store) ListBookNotes(ctx context.Context, bookID string) ([]*domain.BookNote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := bookNoteScope(bookID)
	notes := make([]*domain.BookNote, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			var bn domain.BookNote
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &bn)
			})
			if err != nil {
				return err
			}
			notes = append(notes, &bn)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	slices.SortFunc(notes, func(a, b *domain.BookNote) int {
		if c := cmp.Compare(a.Chapter, b.Chapter); c != 0 {
			return c
		}
		return cmp.Compare(a.Position, b.Position)
	})
	return notes, nil
}

// UpdateBookNote replaces the text of an existing annotation.
// Returns ErrBookNoteNotFound if it does not exist.
func (s *Store) UpdateBookNote(ctx context.Context, bookID, bookNoteID, text, note string) (*domain.BookNote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := []byte(bookNoteKey(bookID, bookNoteID))
	var result *domain.BookNote

	err := s.retryOnConflict(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBookNoteNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get book note: %w", err)
		}

		// Fresh struct per attempt, as in updateBook.
		var bn domain.BookNote
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &bn)
		})
		if err != nil {
			return fmt.Errorf("failed to unmarshal book note: %w", err)
		}

		bn.Text = text
		bn.Note = note
		bn.UpdatedAt = time.Now()

		data, err := json.Marshal(&bn)
		if err != nil {
			return fmt.Errorf("failed to marshal book note: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		result = &bn
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteBookNote removes one annotation. Idempotent.
func (s *Store) DeleteBookNote(ctx context.Context, bookID, bookNoteID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete([]byte(bookNoteKey(bookID, bookNoteID)))
}
