package store

import (
	"cmp"
	"context"
	"encoding/json/v2"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// AddBookmark persists a bookmark under its owning book's key scope.
// Each bookmark is its own record, so concurrent adds against the same
// book never overwrite each other.
func (s *Store) AddBookmark(ctx context.Context, bookmark *domain.Bookmark) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(bookmark)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	key := bookmarkKey(bookmark.BookID, bookmark.ID)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// ListBookmarks returns all bookmarks for a book, oldest first.
// Returns an empty slice, not an error, when the book has none.
func (s *Store) ListBookmarks(ctx context.Context, bookID string) ([]*domain.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := bookmarkScope(bookID)
	bookmarks := make([]*domain.Bookmark, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			var bm domain.Bookmark
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &bm)
			})
			if err != nil {
				return err
			}
			bookmarks = append(bookmarks, &bm)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	slices.SortFunc(bookmarks, func(a, b *domain.Bookmark) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return bookmarks, nil
}

// DeleteBookmark removes one bookmark. Idempotent: removing a missing
// bookmark is a no-op.
func (s *Store) DeleteBookmark(ctx context.Context, bookID, bookmarkID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.delete([]byte(bookmarkKey(bookID, bookmarkID)))
}

// ClearBookmarks removes every bookmark of a book in one transaction.
func (s *Store) ClearBookmarks(ctx context.Context, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return deletePrefix(txn, bookmarkScope(bookID))
	})
}
