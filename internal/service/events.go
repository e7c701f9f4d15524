package service

import "github.com/shelfmark/shelfmark-server/internal/sse"

// EventEmitter relays domain events to subscribers. The SSE manager
// implements it; tests and tools use NoopEmitter.
type EventEmitter interface {
	Emit(event sse.Event)
}

// NoopEmitter discards all events.
type NoopEmitter struct{}

// Emit does nothing.
func (NoopEmitter) Emit(sse.Event) {}
