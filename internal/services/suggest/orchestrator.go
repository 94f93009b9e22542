// File: internal/services/suggest/orchestrator.go
package suggest

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/ysakura/eigo-coach/internal/services/ai"
	"github.com/ysakura/eigo-coach/internal/services/datastream"
)

// Orchestrator fans one user message out to N parallel completion requests
// and persists each variant as an AI message when its stream completes. It
// keeps at most one active round per chat group: starting a new round for a
// group cancels the previous one first.
type Orchestrator struct {
	config *Config
	client CompletionClient
	store  MessageStore
	logger Logger

	mu     sync.Mutex
	active map[uint]*Round
}

func NewOrchestrator(config *Config, client CompletionClient, store MessageStore, logger Logger) (*Orchestrator, error) {
	if client == nil {
		return nil, NewValidationError("constructor", "completion client is required")
	}
	if store == nil {
		return nil, NewValidationError("constructor", "message store is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, NewValidationError("config", err.Error())
	}
	return &Orchestrator{
		config: config,
		client: client,
		store:  store,
		logger: logger,
		active: make(map[uint]*Round),
	}, nil
}

// StartRound begins a suggestion round for one already-persisted user
// message. The returned round exposes incremental per-variant state; its
// lifetime is bounded by ctx.
func (o *Orchestrator) StartRound(ctx context.Context, groupID uint, userMessage string) (*Round, error) {
	if groupID == 0 {
		return nil, NewValidationError("start_round", "group ID is required")
	}
	if strings.TrimSpace(userMessage) == "" {
		return nil, NewValidationError("start_round", "user message cannot be empty")
	}

	round := newRound(ctx, groupID, o.config.VariantCount, o.config.EventBuffer)

	o.mu.Lock()
	if prev, ok := o.active[groupID]; ok {
		prev.Cancel()
	}
	o.active[groupID] = round
	o.mu.Unlock()

	o.logger.Info("suggestion round started",
		"round_id", round.ID, "group_id", groupID, "variants", o.config.VariantCount)

	messages := []ai.Message{{Role: "user", Content: userMessage}}
	for i := 0; i < o.config.VariantCount; i++ {
		go o.runVariant(round, i, messages)
	}

	go func() {
		round.Wait()
		close(round.events)
		o.mu.Lock()
		if o.active[groupID] == round {
			delete(o.active, groupID)
		}
		o.mu.Unlock()
	}()

	return round, nil
}

// CancelRound aborts the active round for a group, if any.
func (o *Orchestrator) CancelRound(groupID uint) {
	o.mu.Lock()
	round, ok := o.active[groupID]
	o.mu.Unlock()
	if ok {
		round.Cancel()
	}
}

// runVariant drives one variant: open the stream, decode chunks in arrival
// order, and persist the final text on clean completion. A failure here
// never touches sibling variants.
func (o *Orchestrator) runVariant(r *Round, idx int, messages []ai.Message) {
	defer r.wg.Done()

	vctx, vcancel := context.WithTimeout(r.ctx, o.config.StreamTimeout)
	defer vcancel()

	handle, err := o.client.StreamSuggestion(vctx, messages, idx)
	if err != nil {
		if r.Cancelled() {
			r.setTerminal(idx, StatusCancelled, nil, "cancelled")
			return
		}
		o.logger.Warn("variant stream open failed",
			"round_id", r.ID, "variant", idx, "error", err)
		r.setTerminal(idx, StatusFailed, nil, err.Error())
		return
	}
	defer handle.Close()

	decoder := datastream.NewDecoder()
	buf := make([]byte, 4096)
	var readErr error
	for {
		n, err := handle.Read(buf)
		if n > 0 {
			if delta := decoder.Decode(string(buf[:n])); delta != "" {
				r.applyDelta(idx, delta)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				readErr = err
			}
			break
		}
	}
	if tail := decoder.Flush(); tail != "" {
		r.applyDelta(idx, tail)
	}

	switch {
	case r.Cancelled():
		r.setTerminal(idx, StatusCancelled, nil, "cancelled")
	case readErr != nil:
		o.logger.Warn("variant stream read failed",
			"round_id", r.ID, "variant", idx, "error", readErr)
		r.setTerminal(idx, StatusFailed, nil, readErr.Error())
	default:
		o.persistVariant(r, idx)
	}
}

// persistVariant saves a completed variant as one AI message and publishes
// the resulting message ID so the UI can offer bookmarking. A save failure
// is reported to the log only; the variant stays visible but unbookmarkable.
func (o *Orchestrator) persistVariant(r *Round, idx int) {
	text := r.variantText(idx)
	if text == "" {
		r.setTerminal(idx, StatusUnpersisted, nil, "")
		return
	}

	// The save runs on its own context: the round context may belong to an
	// HTTP request that ends as soon as the last variant finishes.
	pctx, pcancel := context.WithTimeout(context.Background(), o.config.PersistTimeout)
	defer pcancel()

	msg, err := o.store.SaveAIMessage(pctx, r.GroupID, text)
	if err != nil {
		o.logger.Error("failed to persist suggestion variant",
			"round_id", r.ID, "group_id", r.GroupID, "variant", idx, "error", err)
		r.setTerminal(idx, StatusUnpersisted, nil, "")
		return
	}
	r.setTerminal(idx, StatusPersisted, &msg.ID, "")
}
