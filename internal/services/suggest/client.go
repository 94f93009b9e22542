// File: internal/services/suggest/client.go
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/ysakura/eigo-coach/internal/services/ai"
)

// completionRequest is the wire payload of the completion endpoint.
type completionRequest struct {
	Messages     []ai.Message `json:"messages"`
	VariantIndex int          `json:"variant_index"`
}

// HTTPCompletionClient issues one streamed request per variant against the
// completion endpoint. It performs no retries; retry policy belongs to the
// caller, and the current design performs none.
type HTTPCompletionClient struct {
	url    string
	client *http.Client
	header func(*http.Request)
}

// NewHTTPCompletionClient targets url. The optional header hook decorates
// each request, e.g. to forward the caller's session cookie to a self-hosted
// completion proxy.
func NewHTTPCompletionClient(url string, header func(*http.Request)) *HTTPCompletionClient {
	return &HTTPCompletionClient{
		url: url,
		// No client-level timeout: streams stay open for the duration of a
		// completion. Lifetime is bounded by the per-variant context.
		client: &http.Client{},
		header: header,
	}
}

func (c *HTTPCompletionClient) StreamSuggestion(ctx context.Context, messages []ai.Message, variantIndex int) (StreamHandle, error) {
	payload, err := json.Marshal(completionRequest{Messages: messages, VariantIndex: variantIndex})
	if err != nil {
		return nil, NewTransportError(variantIndex, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, NewTransportError(variantIndex, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.header != nil {
		c.header(req)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, NewTransportError(variantIndex, "failed to open stream", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, NewUpstreamError(variantIndex, resp.StatusCode)
	}
	return resp.Body, nil
}
