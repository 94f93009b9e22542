// File: internal/handlers/completion_handler_test.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ysakura/eigo-coach/internal/services"
	"github.com/ysakura/eigo-coach/internal/services/ai"
	"github.com/ysakura/eigo-coach/internal/services/datastream"
)

type scriptedProvider struct {
	deltas  []string
	openErr error
}

func (p *scriptedProvider) StreamSuggestion(ctx context.Context, messages []ai.Message, variantIndex int, onDelta func(string) error) error {
	if p.openErr != nil {
		return p.openErr
	}
	for _, d := range p.deltas {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return nil
}

func completionBody(variant int) string {
	return `{"messages":[{"role":"user","content":"How do I ask for directions?"}],"variant_index":` +
		map[int]string{0: "0", 1: "1", 2: "2", 3: "3", -1: "-1"}[variant] + `}`
}

func TestCompleteStreamsTaggedFrames(t *testing.T) {
	provider := &scriptedProvider{deltas: []string{"Excuse me, ", "where is ", "the station? 駅はどこですか？"}}
	h := NewCompletionHandler(provider, &services.NoOpLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/completion", strings.NewReader(completionBody(0)))
	rec := httptest.NewRecorder()
	h.Complete(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	var d datastream.Decoder
	text := d.Decode(rec.Body.String()) + d.Flush()
	assert.Equal(t, "Excuse me, where is the station? 駅はどこですか？", text)
}

func TestCompleteRejectsBadVariantIndex(t *testing.T) {
	h := NewCompletionHandler(&scriptedProvider{}, &services.NoOpLogger{})

	for _, variant := range []int{-1, 3} {
		req := httptest.NewRequest(http.MethodPost, "/api/completion", strings.NewReader(completionBody(variant)))
		rec := httptest.NewRecorder()
		h.Complete(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestCompleteRejectsEmptyMessages(t *testing.T) {
	h := NewCompletionHandler(&scriptedProvider{}, &services.NoOpLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/completion", strings.NewReader(`{"messages":[],"variant_index":0}`))
	rec := httptest.NewRecorder()
	h.Complete(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteReportsProviderFailure(t *testing.T) {
	provider := &scriptedProvider{openErr: errors.New("upstream down")}
	h := NewCompletionHandler(provider, &services.NoOpLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/completion", strings.NewReader(completionBody(0)))
	rec := httptest.NewRecorder()
	h.Complete(rec, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
