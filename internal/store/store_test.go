package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestStore opens a Badger store in a temp directory that is
// removed when the test finishes.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}
