package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// CreateBook persists a newly imported book.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	return s.Books.Create(ctx, book.ID, book)
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.Books.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

// ListBooks returns every book in the library, newest first.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	books := make([]*domain.Book, 0)
	for book, err := range s.Books.List(ctx) {
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	slices.SortFunc(books, func(a, b *domain.Book) int {
		return b.AddedAt.Compare(a.AddedAt)
	})
	return books, nil
}

// DeleteBook removes a book record together with its bookmarks and
// annotations in a single transaction. Idempotent: deleting a missing
// book is a no-op.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(bookPrefix + id)); err != nil {
			return fmt.Errorf("failed to delete book: %w", err)
		}

		for _, scope := range []string{bookmarkScope(id), bookNoteScope(id)} {
			if err := deletePrefix(txn, scope); err != nil {
				return err
			}
		}
		return nil
	})
}

// updateBook applies fn to the stored book inside one transaction, so
// concurrent updates to the same book serialize instead of racing.
// Conflicting transactions are retried.
func (s *Store) updateBook(ctx context.Context, id string, fn func(*domain.Book)) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := []byte(bookPrefix + id)
	var result *domain.Book

	err := s.retryOnConflict(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrBookNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get book: %w", err)
		}

		// Fresh struct per attempt: a retry must start from the re-read
		// record, or fields the re-read JSON omits keep stale values.
		var book domain.Book
		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &book)
		})
		if err != nil {
			return fmt.Errorf("failed to unmarshal book: %w", err)
		}

		fn(&book)

		data, err := json.Marshal(&book)
		if err != nil {
			return fmt.Errorf("failed to marshal book: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		result = &book
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateReadingProgress records a new reading position for a book.
// Progress is clamped to [0,100].
func (s *Store) UpdateReadingProgress(ctx context.Context, bookID string, progress float64) (*domain.Book, error) {
	return s.updateBook(ctx, bookID, func(b *domain.Book) {
		b.SetProgress(progress)
	})
}

// MarkBookOpened stamps the book's last-opened time.
func (s *Store) MarkBookOpened(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.updateBook(ctx, bookID, func(b *domain.Book) {
		b.LastOpenedAt = time.Now()
	})
}

// SetBookMissing flags or clears the missing-file marker on a book.
func (s *Store) SetBookMissing(ctx context.Context, bookID string, missing bool) (*domain.Book, error) {
	return s.updateBook(ctx, bookID, func(b *domain.Book) {
		b.Missing = missing
	})
}

// FindBookByPath returns the book whose file path matches, or
// ErrBookNotFound. Used by the library watcher to map file events back
// to records.
func (s *Store) FindBookByPath(ctx context.Context, path string) (*domain.Book, error) {
	for book, err := range s.Books.List(ctx) {
		if err != nil {
			return nil, err
		}
		if book.FilePath == path {
			return book, nil
		}
	}
	return nil, ErrBookNotFound
}

// retryOnConflict runs fn in an update transaction, retrying when two
// read-modify-write transactions touch the same key at once.
func (s *Store) retryOnConflict(ctx context.Context, fn func(*badger.Txn) error) error {
	for {
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// deletePrefix removes every key under the given prefix within txn.
func deletePrefix(txn *badger.Txn, prefix string) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchValues = false

	// Collect first: deleting while iterating invalidates the iterator.
	it := txn.NewIterator(opts)
	var keys [][]byte
	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, key := range keys {
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", key, err)
		}
	}
	return nil
}
