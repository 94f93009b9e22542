// File: internal/services/suggest/types.go
package suggest

import (
	"context"

	"github.com/ysakura/eigo-coach/internal/domain"
	"github.com/ysakura/eigo-coach/internal/services/ai"
)

// Logger is the logging interface used by this package.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// VariantStatus is the lifecycle state of one suggestion variant. Every
// variant starts streaming and reaches exactly one terminal state.
type VariantStatus int

const (
	// StatusStreaming: bytes are still arriving.
	StatusStreaming VariantStatus = iota
	// StatusPersisted: the stream completed and the text was saved as an AI
	// message.
	StatusPersisted
	// StatusUnpersisted: the stream completed but the save failed; the text
	// is visible but cannot be bookmarked.
	StatusUnpersisted
	// StatusFailed: the stream could not be opened or broke mid-flight.
	StatusFailed
	// StatusCancelled: the round was cancelled before this variant finished.
	StatusCancelled
)

func (s VariantStatus) String() string {
	switch s {
	case StatusStreaming:
		return "streaming"
	case StatusPersisted:
		return "persisted"
	case StatusUnpersisted:
		return "unpersisted"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the variant has reached a final state.
func (s VariantStatus) Terminal() bool { return s != StatusStreaming }

// VariantState is a snapshot of one variant's progress.
type VariantState struct {
	Index     int           `json:"index"`
	Text      string        `json:"text"`
	Status    VariantStatus `json:"-"`
	StatusStr string        `json:"status"`
	// MessageID is set at most once, exactly when the variant's stream
	// completes and the AI message is saved.
	MessageID *uint `json:"message_id,omitempty"`
}

// EventKind discriminates round events delivered to subscribers.
type EventKind int

const (
	// EventDelta carries incremental text for one variant.
	EventDelta EventKind = iota
	// EventDone marks a variant's clean completion; Persisted tells whether
	// the AI message was saved and MessageID is usable for bookmarking.
	EventDone
	// EventError marks a variant's failure or cancellation.
	EventError
)

// Event is one per-variant update pushed to the round's subscriber.
type Event struct {
	Kind      EventKind
	Variant   int
	Text      string
	MessageID *uint
	Persisted bool
	Err       string
}

// MessageStore persists completed variants. Implemented by the chat service
// on top of the message repository.
type MessageStore interface {
	SaveAIMessage(ctx context.Context, groupID uint, content string) (*domain.ChatMessage, error)
}

// CompletionClient opens one streamed completion request. The returned body
// speaks the tagged-line frame format; the caller reads it to EOF or
// cancels via ctx.
type CompletionClient interface {
	StreamSuggestion(ctx context.Context, messages []ai.Message, variantIndex int) (StreamHandle, error)
}

// StreamHandle is a live byte stream from the completion endpoint.
type StreamHandle interface {
	Read(p []byte) (int, error)
	Close() error
}
