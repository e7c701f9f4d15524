package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

func TestBookCRUD(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := domain.NewBook("bk-1", "The Trial", "Franz Kafka", "/books/trial.epub", 2048)
	require.NoError(t, s.CreateBook(ctx, book))

	// Creating the same ID again must fail.
	err := s.CreateBook(ctx, book)
	require.ErrorIs(t, err, ErrAlreadyExists)

	got, err := s.GetBook(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "The Trial", got.Title)
	assert.Equal(t, "Franz Kafka", got.Author)
	assert.Equal(t, int64(2048), got.FileSize)
	assert.Equal(t, domain.EPUBMediaType, got.FileType)

	require.NoError(t, s.DeleteBook(ctx, "bk-1"))

	_, err = s.GetBook(ctx, "bk-1")
	require.ErrorIs(t, err, ErrBookNotFound)

	// Deleting again is a no-op.
	require.NoError(t, s.DeleteBook(ctx, "bk-1"))
}

func TestGetBookNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetBook(context.Background(), "bk-missing")
	require.ErrorIs(t, err, ErrBookNotFound)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListBooksNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	now := time.Now()
	for i, id := range []string{"bk-old", "bk-mid", "bk-new"} {
		book := domain.NewBook(id, "Book "+id, "Author", "/books/"+id+".epub", 100)
		book.AddedAt = now.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.CreateBook(ctx, book))
	}

	books, err := s.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "bk-new", books[0].ID)
	assert.Equal(t, "bk-mid", books[1].ID)
	assert.Equal(t, "bk-old", books[2].ID)
}

func TestListBooksEmpty(t *testing.T) {
	s := setupTestStore(t)

	books, err := s.ListBooks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.NotNil(t, books)
}

func TestUpdateReadingProgress(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := domain.NewBook("bk-1", "Dune", "Frank Herbert", "/books/dune.epub", 4096)
	require.NoError(t, s.CreateBook(ctx, book))

	updated, err := s.UpdateReadingProgress(ctx, "bk-1", 42.5)
	require.NoError(t, err)
	assert.InDelta(t, 42.5, updated.ReadingProgress, 0.001)
	assert.InDelta(t, 42.5, updated.LastReadPosition, 0.001)
	assert.False(t, updated.LastReadAt.IsZero())

	// Clamped at both ends.
	updated, err = s.UpdateReadingProgress(ctx, "bk-1", 150)
	require.NoError(t, err)
	assert.InDelta(t, 100, updated.ReadingProgress, 0.001)

	updated, err = s.UpdateReadingProgress(ctx, "bk-1", -5)
	require.NoError(t, err)
	assert.InDelta(t, 0, updated.ReadingProgress, 0.001)

	_, err = s.UpdateReadingProgress(ctx, "bk-missing", 10)
	require.ErrorIs(t, err, ErrBookNotFound)
}

func TestConcurrentProgressUpdates(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := domain.NewBook("bk-1", "Dune", "Frank Herbert", "/books/dune.epub", 4096)
	require.NoError(t, s.CreateBook(ctx, book))

	done := make(chan error, 2)
	for _, p := range []float64{30, 60} {
		go func() {
			_, err := s.UpdateReadingProgress(ctx, "bk-1", p)
			done <- err
		}()
	}
	for range 2 {
		require.NoError(t, <-done)
	}

	got, err := s.GetBook(ctx, "bk-1")
	require.NoError(t, err)
	// Writes serialize; one of the two values wins, never a torn state.
	assert.Contains(t, []float64{30, 60}, got.ReadingProgress)
	assert.Equal(t, got.ReadingProgress, got.LastReadPosition)
}

func TestUpdateBookRetryRereadsRecord(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := domain.NewBook("bk-1", "Molloy", "Samuel Beckett", "/books/molloy.epub", 512)
	book.Description = "a novel"
	require.NoError(t, s.CreateBook(ctx, book))

	// A conflicting write lands between the first read and commit,
	// clearing the description. The forced retry must start from the
	// re-read record; omitted JSON fields may not survive from the
	// first attempt.
	calls := 0
	updated, err := s.updateBook(ctx, "bk-1", func(b *domain.Book) {
		calls++
		if calls == 1 {
			cleared := *b
			cleared.Description = ""
			require.NoError(t, s.set([]byte(bookPrefix+"bk-1"), &cleared))
		}
		b.SetProgress(50)
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls, "expected the conflicting write to force one retry")

	assert.Empty(t, updated.Description)
	assert.InDelta(t, 50, updated.ReadingProgress, 0.001)

	got, err := s.GetBook(ctx, "bk-1")
	require.NoError(t, err)
	assert.Empty(t, got.Description)
}

func TestMarkBookOpened(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := domain.NewBook("bk-1", "Emma", "Jane Austen", "/books/emma.epub", 1024)
	require.NoError(t, s.CreateBook(ctx, book))
	assert.True(t, book.LastOpenedAt.IsZero())

	updated, err := s.MarkBookOpened(ctx, "bk-1")
	require.NoError(t, err)
	assert.False(t, updated.LastOpenedAt.IsZero())
}

func TestSetBookMissing(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := domain.NewBook("bk-1", "Emma", "Jane Austen", "/books/emma.epub", 1024)
	require.NoError(t, s.CreateBook(ctx, book))

	updated, err := s.SetBookMissing(ctx, "bk-1", true)
	require.NoError(t, err)
	assert.True(t, updated.Missing)

	updated, err = s.SetBookMissing(ctx, "bk-1", false)
	require.NoError(t, err)
	assert.False(t, updated.Missing)
}

func TestFindBookByPath(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := domain.NewBook("bk-1", "Emma", "Jane Austen", "/books/emma.epub", 1024)
	require.NoError(t, s.CreateBook(ctx, book))

	got, err := s.FindBookByPath(ctx, "/books/emma.epub")
	require.NoError(t, err)
	assert.Equal(t, "bk-1", got.ID)

	_, err = s.FindBookByPath(ctx, "/books/nope.epub")
	require.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteBookRemovesChildren(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	book := domain.NewBook("bk-1", "Emma", "Jane Austen", "/books/emma.epub", 1024)
	require.NoError(t, s.CreateBook(ctx, book))

	require.NoError(t, s.AddBookmark(ctx, &domain.Bookmark{
		ID: "bm-1", BookID: "bk-1", Position: 10, CreatedAt: time.Now(),
	}))
	require.NoError(t, s.AddBookNote(ctx, &domain.BookNote{
		ID: "bn-1", BookID: "bk-1", Chapter: 2, Position: 40,
		Text: "highlighted passage", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}))

	require.NoError(t, s.DeleteBook(ctx, "bk-1"))

	bookmarks, err := s.ListBookmarks(ctx, "bk-1")
	require.NoError(t, err)
	assert.Empty(t, bookmarks)

	notes, err := s.ListBookNotes(ctx, "bk-1")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestStoreContextCancelled(t *testing.T) {
	s := setupTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetBook(ctx, "bk-1")
	require.ErrorIs(t, err, context.Canceled)

	err = s.CreateBook(ctx, domain.NewBook("bk-1", "T", "A", "/p", 1))
	require.ErrorIs(t, err, context.Canceled)
}
