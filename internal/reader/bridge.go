// Package reader implements the renderer bridge: an HTML document that
// embeds the epub.js renderer, and the message channel it reports back
// through. The bridge only sees a narrow surface - it can update
// reading progress and relay events, nothing else.
package reader

import (
	"context"
	"encoding/json/v2"
	"log/slog"

	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/sse"
)

// Message types the renderer may send.
const (
	MessageProgress = "progress"
	MessageError    = "error"
)

// Message is one bridge message from the renderer.
type Message struct {
	Type     string  `json:"type"`
	Progress float64 `json:"progress,omitzero"`
	Error    string  `json:"error,omitzero"`
}

// ProgressSink is what the bridge is allowed to do to the library:
// record reading positions, nothing more.
type ProgressSink interface {
	UpdateProgress(ctx context.Context, bookID string, progress float64) error
}

// EventEmitter relays bridge events to subscribers.
type EventEmitter interface {
	Emit(event sse.Event)
}

// Bridge receives renderer messages and dispatches them.
type Bridge struct {
	sink    ProgressSink
	emitter EventEmitter
	logger  *slog.Logger
}

// NewBridge creates a Bridge bound to a progress sink and an emitter.
func NewBridge(sink ProgressSink, emitter EventEmitter, logger *slog.Logger) *Bridge {
	return &Bridge{
		sink:    sink,
		emitter: emitter,
		logger:  logger,
	}
}

// ParseMessage decodes and validates a raw bridge message.
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, domainerrors.Validation("malformed bridge message")
	}

	switch msg.Type {
	case MessageProgress:
		if msg.Progress < 0 || msg.Progress > 100 {
			return nil, domainerrors.Validationf("progress %.2f out of range [0,100]", msg.Progress)
		}
	case MessageError:
		if msg.Error == "" {
			return nil, domainerrors.Validation("error message requires an error field")
		}
	default:
		return nil, domainerrors.Validationf("unknown message type %q", msg.Type)
	}

	return &msg, nil
}

// HandleMessage dispatches one parsed message for a book. Progress
// messages update the stored position; error messages are logged and
// relayed only.
func (b *Bridge) HandleMessage(ctx context.Context, bookID string, msg *Message) error {
	switch msg.Type {
	case MessageProgress:
		// The sink emits the progress event after the write; a second
		// emit here would double every position update for subscribers.
		return b.sink.UpdateProgress(ctx, bookID, msg.Progress)

	case MessageError:
		b.logger.Warn("renderer reported error",
			"book_id", bookID,
			"error", msg.Error,
		)
		b.emitter.Emit(sse.NewReaderErrorEvent(bookID, msg.Error))
		return nil

	default:
		// ParseMessage rejects unknown types; this is unreachable from
		// the HTTP path.
		return domainerrors.Validationf("unknown message type %q", msg.Type)
	}
}
