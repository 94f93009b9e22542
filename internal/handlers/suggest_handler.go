// File: internal/handlers/suggest_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ysakura/eigo-coach/internal/dtos"
	"github.com/ysakura/eigo-coach/internal/middleware"
	"github.com/ysakura/eigo-coach/internal/services"
	"github.com/ysakura/eigo-coach/internal/services/suggest"
)

// SuggestHandler is the presentation-facing surface of the suggestion
// pipeline: it persists the user message, starts a round of parallel
// variants and forwards their incremental state as server-sent events.
type SuggestHandler struct {
	chatService  *services.ChatService
	orchestrator *suggest.Orchestrator
	logger       services.Logger
}

func NewSuggestHandler(chatService *services.ChatService, orchestrator *suggest.Orchestrator, logger services.Logger) *SuggestHandler {
	return &SuggestHandler{chatService: chatService, orchestrator: orchestrator, logger: logger}
}

// Suggest handles POST /api/groups/{id}/suggest. The response is an SSE
// stream with events:
//
//	start  {round_id, user_message_id, variants}
//	delta  {variant, text}
//	done   {variant, message_id, persisted}
//	error  {variant, message}
//	end    {}
//
// Closing the connection cancels all in-flight variants.
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	var req dtos.SuggestRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	// The user message is stored before any variant starts, so an AI reply
	// can never exist without its paired user message.
	userMessage, err := h.chatService.SaveUserMessage(r.Context(), userID, groupID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			writeError(w, "access denied", http.StatusForbidden)
		case errors.Is(err, services.ErrEmptyMessage):
			writeError(w, "message cannot be empty", http.StatusBadRequest)
		default:
			writeError(w, "could not save message", http.StatusInternalServerError)
		}
		return
	}

	round, err := h.orchestrator.StartRound(r.Context(), groupID, req.Message)
	if err != nil {
		writeError(w, "could not start suggestions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	writeSSE(w, flusher, "start", map[string]interface{}{
		"round_id":        round.ID,
		"user_message_id": userMessage.ID,
		"variants":        len(round.Variants()),
	})

	for ev := range round.Events() {
		switch ev.Kind {
		case suggest.EventDelta:
			writeSSE(w, flusher, "delta", map[string]interface{}{
				"variant": ev.Variant,
				"text":    ev.Text,
			})
		case suggest.EventDone:
			writeSSE(w, flusher, "done", map[string]interface{}{
				"variant":    ev.Variant,
				"message_id": ev.MessageID,
				"persisted":  ev.Persisted,
			})
		case suggest.EventError:
			writeSSE(w, flusher, "error", map[string]interface{}{
				"variant": ev.Variant,
				"message": ev.Err,
			})
		}
	}

	writeSSE(w, flusher, "end", map[string]interface{}{})
}

func writeSSE(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	flusher.Flush()
}
