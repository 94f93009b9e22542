// File: internal/handlers/completion_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ysakura/eigo-coach/internal/services"
	"github.com/ysakura/eigo-coach/internal/services/ai"
	"github.com/ysakura/eigo-coach/internal/services/datastream"
)

// CompletionHandler hosts the upstream side of the suggestion pipeline: it
// proxies one streamed completion request to the language-model provider
// and re-frames the deltas as tagged lines.
type CompletionHandler struct {
	provider ai.CompletionProvider
	logger   services.Logger
}

func NewCompletionHandler(provider ai.CompletionProvider, logger services.Logger) *CompletionHandler {
	return &CompletionHandler{provider: provider, logger: logger}
}

type completionRequest struct {
	Messages     []ai.Message `json:"messages"`
	VariantIndex int          `json:"variant_index"`
}

// Complete handles POST /api/completion.
func (h *CompletionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.VariantIndex < 0 || req.VariantIndex > 2 {
		writeError(w, "variant_index must be 0..2", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	stream := datastream.NewWriter(w)
	wroteAny := false

	err := h.provider.StreamSuggestion(r.Context(), req.Messages, req.VariantIndex, func(delta string) error {
		wroteAny = true
		return stream.WriteText(delta)
	})
	if err != nil {
		h.logger.Error("completion stream failed", "variant", req.VariantIndex, "error", err)
		if !wroteAny {
			// Headers not yet flushed to the client; report a clean failure.
			writeError(w, "completion provider unavailable", http.StatusBadGateway)
		}
		return
	}
}
