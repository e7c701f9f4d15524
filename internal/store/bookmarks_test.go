package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

func TestBookmarkLifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	bm := &domain.Bookmark{
		ID:        "bm-1",
		BookID:    "bk-1",
		Position:  33.3,
		Chapter:   4,
		Note:      "good part",
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.AddBookmark(ctx, bm))

	bookmarks, err := s.ListBookmarks(ctx, "bk-1")
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "bm-1", bookmarks[0].ID)
	assert.InDelta(t, 33.3, bookmarks[0].Position, 0.001)
	assert.Equal(t, "good part", bookmarks[0].Note)

	require.NoError(t, s.DeleteBookmark(ctx, "bk-1", "bm-1"))

	bookmarks, err = s.ListBookmarks(ctx, "bk-1")
	require.NoError(t, err)
	assert.Empty(t, bookmarks)

	// Deleting a missing bookmark is a no-op.
	require.NoError(t, s.DeleteBookmark(ctx, "bk-1", "bm-1"))
}

func TestListBookmarksEmpty(t *testing.T) {
	s := setupTestStore(t)

	bookmarks, err := s.ListBookmarks(context.Background(), "bk-nothing")
	require.NoError(t, err)
	assert.NotNil(t, bookmarks)
	assert.Empty(t, bookmarks)
}

func TestListBookmarksOrderedOldestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	now := time.Now()
	for i, id := range []string{"bm-c", "bm-a", "bm-b"} {
		require.NoError(t, s.AddBookmark(ctx, &domain.Bookmark{
			ID:        id,
			BookID:    "bk-1",
			Position:  float64(i * 10),
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}))
	}

	bookmarks, err := s.ListBookmarks(ctx, "bk-1")
	require.NoError(t, err)
	require.Len(t, bookmarks, 3)
	assert.Equal(t, "bm-c", bookmarks[0].ID)
	assert.Equal(t, "bm-a", bookmarks[1].ID)
	assert.Equal(t, "bm-b", bookmarks[2].ID)
}

func TestBookmarksScopedToBook(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddBookmark(ctx, &domain.Bookmark{
		ID: "bm-1", BookID: "bk-1", Position: 10, CreatedAt: time.Now(),
	}))
	require.NoError(t, s.AddBookmark(ctx, &domain.Bookmark{
		ID: "bm-2", BookID: "bk-2", Position: 20, CreatedAt: time.Now(),
	}))

	bookmarks, err := s.ListBookmarks(ctx, "bk-1")
	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "bm-1", bookmarks[0].ID)
}

func TestConcurrentBookmarkAdds(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Two goroutines add bookmarks to the same book at the same time.
	// Each bookmark is its own record, so both must survive.
	done := make(chan error, 2)
	for _, id := range []string{"bm-1", "bm-2"} {
		go func() {
			done <- s.AddBookmark(ctx, &domain.Bookmark{
				ID:        id,
				BookID:    "bk-1",
				Position:  50,
				CreatedAt: time.Now(),
			})
		}()
	}
	for range 2 {
		require.NoError(t, <-done)
	}

	bookmarks, err := s.ListBookmarks(ctx, "bk-1")
	require.NoError(t, err)
	assert.Len(t, bookmarks, 2)
}

func TestClearBookmarks(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"bm-1", "bm-2", "bm-3"} {
		require.NoError(t, s.AddBookmark(ctx, &domain.Bookmark{
			ID: id, BookID: "bk-1", Position: 10, CreatedAt: time.Now(),
		}))
	}
	require.NoError(t, s.AddBookmark(ctx, &domain.Bookmark{
		ID: "bm-other", BookID: "bk-2", Position: 10, CreatedAt: time.Now(),
	}))

	require.NoError(t, s.ClearBookmarks(ctx, "bk-1"))

	bookmarks, err := s.ListBookmarks(ctx, "bk-1")
	require.NoError(t, err)
	assert.Empty(t, bookmarks)

	// Other books untouched.
	bookmarks, err = s.ListBookmarks(ctx, "bk-2")
	require.NoError(t, err)
	assert.Len(t, bookmarks, 1)
}
