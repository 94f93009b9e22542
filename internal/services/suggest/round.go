// File: internal/services/suggest/round.go
package suggest

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Round tracks one orchestration of N parallel suggestion variants for a
// single user message. Variant slots are written only by their own read
// loop; the mutex guards snapshots taken by other goroutines.
type Round struct {
	ID      string
	GroupID uint

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	variants []VariantState

	events chan Event
	wg     sync.WaitGroup
}

func newRound(ctx context.Context, groupID uint, variantCount, eventBuffer int) *Round {
	rctx, cancel := context.WithCancel(ctx)
	r := &Round{
		ID:       uuid.NewString(),
		GroupID:  groupID,
		ctx:      rctx,
		cancel:   cancel,
		variants: make([]VariantState, variantCount),
		events:   make(chan Event, eventBuffer),
	}
	for i := range r.variants {
		r.variants[i] = VariantState{Index: i, Status: StatusStreaming, StatusStr: StatusStreaming.String()}
	}
	r.wg.Add(variantCount)
	return r
}

// Events is the subscriber channel. It delivers per-variant delta, done and
// error events and is closed once every variant has reached a terminal
// state.
func (r *Round) Events() <-chan Event { return r.events }

// Cancel aborts all in-flight variant requests. Cancelled variants are
// never persisted, even if their network responses arrive afterwards.
func (r *Round) Cancel() { r.cancel() }

// Cancelled reports whether the round has been cancelled.
func (r *Round) Cancelled() bool { return r.ctx.Err() != nil }

// Wait blocks until every variant is terminal.
func (r *Round) Wait() { r.wg.Wait() }

// Variants returns a snapshot of all variant states.
func (r *Round) Variants() []VariantState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]VariantState, len(r.variants))
	copy(out, r.variants)
	return out
}

// variantText returns the accumulated text of one variant.
func (r *Round) variantText(idx int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.variants[idx].Text
}

// applyDelta appends decoded text to a variant in arrival order. Updates
// after cancellation or after the variant went terminal are suppressed.
func (r *Round) applyDelta(idx int, delta string) {
	r.mu.Lock()
	if r.ctx.Err() != nil || r.variants[idx].Status.Terminal() {
		r.mu.Unlock()
		return
	}
	r.variants[idx].Text += delta
	r.mu.Unlock()

	r.publish(Event{Kind: EventDelta, Variant: idx, Text: delta})
}

// setTerminal moves a variant to its final state exactly once and emits the
// matching event.
func (r *Round) setTerminal(idx int, status VariantStatus, messageID *uint, errMsg string) {
	r.mu.Lock()
	if r.variants[idx].Status.Terminal() {
		r.mu.Unlock()
		return
	}
	r.variants[idx].Status = status
	r.variants[idx].StatusStr = status.String()
	if messageID != nil && r.variants[idx].MessageID == nil {
		r.variants[idx].MessageID = messageID
	}
	r.mu.Unlock()

	switch status {
	case StatusPersisted:
		r.publish(Event{Kind: EventDone, Variant: idx, MessageID: messageID, Persisted: true})
	case StatusUnpersisted:
		r.publish(Event{Kind: EventDone, Variant: idx, Persisted: false})
	default:
		r.publish(Event{Kind: EventError, Variant: idx, Err: errMsg})
	}
}

// publish delivers an event to the subscriber, giving up if the round is
// cancelled and nobody is draining the channel.
func (r *Round) publish(ev Event) {
	select {
	case r.events <- ev:
	case <-r.ctx.Done():
		select {
		case r.events <- ev:
		default:
		}
	}
}
