package sse

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	log := logger.New(logger.Config{Writer: io.Discard, Level: slog.LevelError})
	return NewManager(log.Logger)
}

func TestManagerBroadcastsToClients(t *testing.T) {
	m := newTestManager(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Start(ctx)

	client, err := m.Connect()
	require.NoError(t, err)
	defer m.Disconnect(client.ID)

	m.Emit(NewBookDeletedEvent("bk-1"))

	select {
	case event := <-client.EventChan:
		assert.Equal(t, EventBookDeleted, event.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestManagerClientCount(t *testing.T) {
	m := newTestManager(t)

	assert.Equal(t, 0, m.ClientCount())

	c1, err := m.Connect()
	require.NoError(t, err)
	c2, err := m.Connect()
	require.NoError(t, err)
	assert.Equal(t, 2, m.ClientCount())

	m.Disconnect(c1.ID)
	assert.Equal(t, 1, m.ClientCount())

	// Disconnecting twice is safe.
	m.Disconnect(c1.ID)
	m.Disconnect(c2.ID)
	assert.Equal(t, 0, m.ClientCount())
}

func TestManagerEmitAfterShutdown(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.Shutdown(context.Background()))

	// Must not panic or block.
	m.Emit(NewHeartbeatEvent())
}
