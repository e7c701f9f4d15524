// Package sse implements Server-Sent Events for pushing library and
// reading updates to connected clients.
package sse

import (
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventBookCreated fires when a book finishes importing.
	EventBookCreated EventType = "book.created"
	// EventBookDeleted fires when a book is removed from the library.
	EventBookDeleted EventType = "book.deleted"
	// EventBookMissing fires when a book's file disappears or reappears
	// on disk.
	EventBookMissing EventType = "book.missing"

	// EventReadingProgress fires on every reader position update.
	EventReadingProgress EventType = "reading.progress"
	// EventReaderError fires when the renderer reports a failure.
	EventReaderError EventType = "reader.error"

	// EventNoteCreated fires when a standalone note is created.
	EventNoteCreated EventType = "note.created"
	// EventNoteUpdated fires when a standalone note is edited.
	EventNoteUpdated EventType = "note.updated"
	// EventNoteDeleted fires when a standalone note is removed.
	EventNoteDeleted EventType = "note.deleted"

	// EventHeartbeat keeps idle connections alive.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field carries the event payload as a JSON object.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// BookEventData is the payload for book.created events.
type BookEventData struct {
	Book *domain.Book `json:"book"`
}

// BookDeletedEventData is the payload for book.deleted events.
type BookDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	BookID    string    `json:"book_id"`
}

// BookMissingEventData is the payload for book.missing events.
type BookMissingEventData struct {
	BookID  string `json:"book_id"`
	Missing bool   `json:"missing"`
}

// ReadingProgressEventData is the payload for reading.progress events.
type ReadingProgressEventData struct {
	BookID   string  `json:"book_id"`
	Progress float64 `json:"progress"`
}

// ReaderErrorEventData is the payload for reader.error events.
type ReaderErrorEventData struct {
	BookID string `json:"book_id"`
	Error  string `json:"error"`
}

// NoteEventData is the payload for note.created and note.updated events.
type NoteEventData struct {
	Note *domain.Note `json:"note"`
}

// NoteDeletedEventData is the payload for note.deleted events.
type NoteDeletedEventData struct {
	NoteID string `json:"note_id"`
}

// HeartbeatEventData is the payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewBookCreatedEvent creates a book.created event.
func NewBookCreatedEvent(book *domain.Book) Event {
	return Event{
		Type:      EventBookCreated,
		Data:      BookEventData{Book: book},
		Timestamp: time.Now(),
	}
}

// NewBookDeletedEvent creates a book.deleted event.
func NewBookDeletedEvent(bookID string) Event {
	return Event{
		Type: EventBookDeleted,
		Data: BookDeletedEventData{
			BookID:    bookID,
			DeletedAt: time.Now(),
		},
		Timestamp: time.Now(),
	}
}

// NewBookMissingEvent creates a book.missing event.
func NewBookMissingEvent(bookID string, missing bool) Event {
	return Event{
		Type: EventBookMissing,
		Data: BookMissingEventData{
			BookID:  bookID,
			Missing: missing,
		},
		Timestamp: time.Now(),
	}
}

// NewReadingProgressEvent creates a reading.progress event.
func NewReadingProgressEvent(bookID string, progress float64) Event {
	return Event{
		Type: EventReadingProgress,
		Data: ReadingProgressEventData{
			BookID:   bookID,
			Progress: progress,
		},
		Timestamp: time.Now(),
	}
}

// NewReaderErrorEvent creates a reader.error event.
func NewReaderErrorEvent(bookID, errMsg string) Event {
	return Event{
		Type: EventReaderError,
		Data: ReaderErrorEventData{
			BookID: bookID,
			Error:  errMsg,
		},
		Timestamp: time.Now(),
	}
}

// NewNoteCreatedEvent creates a note.created event.
func NewNoteCreatedEvent(note *domain.Note) Event {
	return Event{
		Type:      EventNoteCreated,
		Data:      NoteEventData{Note: note},
		Timestamp: time.Now(),
	}
}

// NewNoteUpdatedEvent creates a note.updated event.
func NewNoteUpdatedEvent(note *domain.Note) Event {
	return Event{
		Type:      EventNoteUpdated,
		Data:      NoteEventData{Note: note},
		Timestamp: time.Now(),
	}
}

// NewNoteDeletedEvent creates a note.deleted event.
func NewNoteDeletedEvent(noteID string) Event {
	return Event{
		Type:      EventNoteDeleted,
		Data:      NoteDeletedEventData{NoteID: noteID},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type: EventHeartbeat,
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
		Timestamp: time.Now(),
	}
}
