// File: internal/services/ai/interface.go
package ai

import "context"

// Message is one turn of conversation context passed to the provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionProvider streams one suggestion completion. The variant index
// parameterizes the prompt so each of the parallel requests asks for a
// distinct phrasing.
type CompletionProvider interface {
	StreamSuggestion(ctx context.Context, messages []Message, variantIndex int, onDelta func(string) error) error
}
