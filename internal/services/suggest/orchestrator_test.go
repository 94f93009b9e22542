// File: internal/services/suggest/orchestrator_test.go
package suggest

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ysakura/eigo-coach/internal/domain"
	"github.com/ysakura/eigo-coach/internal/services/ai"
	"github.com/ysakura/eigo-coach/internal/services/datastream"
)

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Warn(string, ...interface{})  {}

// chanStream feeds scripted chunks to the variant read loop and honors the
// variant context while blocked.
type chanStream struct {
	ctx    context.Context
	chunks chan string
	rest   string
}

func (s *chanStream) Read(p []byte) (int, error) {
	if s.rest == "" {
		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				return 0, io.EOF
			}
			s.rest = chunk
		case <-s.ctx.Done():
			return 0, s.ctx.Err()
		}
	}
	n := copy(p, s.rest)
	s.rest = s.rest[n:]
	return n, nil
}

func (s *chanStream) Close() error { return nil }

type fakeClient struct {
	mu      sync.Mutex
	streams map[int]chan string
	openErr map[int]error
}

func newFakeClient() *fakeClient {
	return &fakeClient{streams: make(map[int]chan string), openErr: make(map[int]error)}
}

func (c *fakeClient) StreamSuggestion(ctx context.Context, messages []ai.Message, variantIndex int) (StreamHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.openErr[variantIndex]; err != nil {
		return nil, err
	}
	ch, ok := c.streams[variantIndex]
	if !ok {
		ch = make(chan string, 16)
		close(ch)
	}
	return &chanStream{ctx: ctx, chunks: ch}, nil
}

func (c *fakeClient) script(variantIndex int, frames ...string) chan string {
	ch := make(chan string, 16)
	for _, f := range frames {
		ch <- f
	}
	c.mu.Lock()
	c.streams[variantIndex] = ch
	c.mu.Unlock()
	return ch
}

type fakeStore struct {
	mu     sync.Mutex
	nextID uint
	saved  []string
	fail   bool
}

func (s *fakeStore) SaveAIMessage(ctx context.Context, groupID uint, content string) (*domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("store unavailable")
	}
	s.nextID++
	s.saved = append(s.saved, content)
	return &domain.ChatMessage{ID: s.nextID, ChatGroupID: groupID, Role: domain.RoleAI, Content: content}, nil
}

func (s *fakeStore) contents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.saved))
	copy(out, s.saved)
	return out
}

func newTestOrchestrator(t *testing.T, client CompletionClient, store MessageStore) *Orchestrator {
	t.Helper()
	cfg := DefaultConfig()
	cfg.StreamTimeout = 2 * time.Second
	o, err := NewOrchestrator(cfg, client, store, noopLogger{})
	require.NoError(t, err)
	return o
}

func drain(r *Round) []Event {
	var events []Event
	for ev := range r.Events() {
		events = append(events, ev)
	}
	return events
}

func TestRoundProducesThreeVariantSlots(t *testing.T) {
	client := newFakeClient()
	for i := 0; i < 3; i++ {
		ch := client.script(i, datastream.EncodeText("variant "), datastream.EncodeText("text"))
		close(ch)
	}
	store := &fakeStore{}

	o := newTestOrchestrator(t, client, store)
	round, err := o.StartRound(context.Background(), 1, "phrases for a deadline extension")
	require.NoError(t, err)

	round.Wait()
	drain(round)

	variants := round.Variants()
	require.Len(t, variants, 3)
	for _, v := range variants {
		assert.Equal(t, StatusPersisted, v.Status)
		assert.Equal(t, "variant text", v.Text)
		require.NotNil(t, v.MessageID)
	}
	assert.Len(t, store.contents(), 3)

	// Message IDs are distinct per variant.
	seen := map[uint]bool{}
	for _, v := range variants {
		assert.False(t, seen[*v.MessageID])
		seen[*v.MessageID] = true
	}
}

func TestVariantDeltasArriveInOrder(t *testing.T) {
	client := newFakeClient()
	ch := client.script(0, datastream.EncodeText("one "), datastream.EncodeText("two "), datastream.EncodeText("three"))
	close(ch)
	for i := 1; i < 3; i++ {
		close(client.script(i))
	}
	store := &fakeStore{}

	o := newTestOrchestrator(t, client, store)
	round, err := o.StartRound(context.Background(), 1, "hello")
	require.NoError(t, err)
	round.Wait()

	var texts []string
	for _, ev := range drain(round) {
		if ev.Kind == EventDelta && ev.Variant == 0 {
			texts = append(texts, ev.Text)
		}
	}
	assert.Equal(t, []string{"one ", "two ", "three"}, texts)
	assert.Equal(t, "one two three", round.Variants()[0].Text)
}

func TestFailedVariantDoesNotCancelSiblings(t *testing.T) {
	client := newFakeClient()
	client.mu.Lock()
	client.openErr[1] = errors.New("connection refused")
	client.mu.Unlock()
	close(client.script(0, datastream.EncodeText("ok zero")))
	close(client.script(2, datastream.EncodeText("ok two")))
	store := &fakeStore{}

	o := newTestOrchestrator(t, client, store)
	round, err := o.StartRound(context.Background(), 7, "hello")
	require.NoError(t, err)
	round.Wait()
	drain(round)

	variants := round.Variants()
	assert.Equal(t, StatusPersisted, variants[0].Status)
	assert.Equal(t, StatusFailed, variants[1].Status)
	assert.Equal(t, StatusPersisted, variants[2].Status)
	assert.ElementsMatch(t, []string{"ok zero", "ok two"}, store.contents())
}

func TestCancelledRoundIsNeverPersisted(t *testing.T) {
	client := newFakeClient()
	var chans []chan string
	for i := 0; i < 3; i++ {
		chans = append(chans, client.script(i, datastream.EncodeText("partial ")))
	}
	store := &fakeStore{}

	o := newTestOrchestrator(t, client, store)
	round, err := o.StartRound(context.Background(), 3, "hello")
	require.NoError(t, err)

	// Let the first chunks land, then cancel mid-stream.
	time.Sleep(50 * time.Millisecond)
	round.Cancel()

	// Late network data arriving after cancellation must not resurrect the
	// variants.
	for _, ch := range chans {
		ch <- datastream.EncodeText("late data")
		close(ch)
	}

	round.Wait()
	drain(round)

	assert.Empty(t, store.contents())
	for _, v := range round.Variants() {
		assert.Equal(t, StatusCancelled, v.Status)
		assert.Nil(t, v.MessageID)
		assert.NotContains(t, v.Text, "late data")
	}
}

func TestPersistFailureLeavesVariantUnbookmarkable(t *testing.T) {
	client := newFakeClient()
	for i := 0; i < 3; i++ {
		close(client.script(i, datastream.EncodeText("text")))
	}
	store := &fakeStore{fail: true}

	o := newTestOrchestrator(t, client, store)
	round, err := o.StartRound(context.Background(), 1, "hello")
	require.NoError(t, err)
	round.Wait()

	var doneEvents []Event
	for _, ev := range drain(round) {
		if ev.Kind == EventDone {
			doneEvents = append(doneEvents, ev)
		}
	}
	require.Len(t, doneEvents, 3)
	for _, ev := range doneEvents {
		assert.False(t, ev.Persisted)
		assert.Nil(t, ev.MessageID)
	}
	for _, v := range round.Variants() {
		assert.Equal(t, StatusUnpersisted, v.Status)
		assert.Equal(t, "text", v.Text)
	}
}

func TestNewRoundCancelsActiveRoundForGroup(t *testing.T) {
	client := newFakeClient()
	var first []chan string
	for i := 0; i < 3; i++ {
		first = append(first, client.script(i, datastream.EncodeText("old ")))
	}
	store := &fakeStore{}

	o := newTestOrchestrator(t, client, store)
	oldRound, err := o.StartRound(context.Background(), 5, "first message")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 3; i++ {
		close(client.script(i, datastream.EncodeText("new")))
	}
	newRound, err := o.StartRound(context.Background(), 5, "second message")
	require.NoError(t, err)

	for _, ch := range first {
		close(ch)
	}
	oldRound.Wait()
	newRound.Wait()
	drain(oldRound)
	drain(newRound)

	assert.True(t, oldRound.Cancelled())
	for _, v := range oldRound.Variants() {
		assert.Equal(t, StatusCancelled, v.Status)
	}
	for _, v := range newRound.Variants() {
		assert.Equal(t, StatusPersisted, v.Status)
	}
	assert.Equal(t, []string{"new", "new", "new"}, store.contents())
}

func TestSplitFramesAcrossChunksDecodeCleanly(t *testing.T) {
	frame := datastream.EncodeText("Could you extend the deadline?\n締め切りを延ばしていただけますか？")
	client := newFakeClient()
	// Deliver the frame split at an awkward byte boundary.
	close(client.script(0, frame[:7], frame[7:]))
	for i := 1; i < 3; i++ {
		close(client.script(i))
	}
	store := &fakeStore{}

	o := newTestOrchestrator(t, client, store)
	round, err := o.StartRound(context.Background(), 1, "deadline")
	require.NoError(t, err)
	round.Wait()
	drain(round)

	assert.Equal(t, "Could you extend the deadline?\n締め切りを延ばしていただけますか？", round.Variants()[0].Text)
}

func TestStartRoundValidation(t *testing.T) {
	o := newTestOrchestrator(t, newFakeClient(), &fakeStore{})

	_, err := o.StartRound(context.Background(), 0, "hello")
	assert.Error(t, err)

	_, err = o.StartRound(context.Background(), 1, "   ")
	assert.Error(t, err)
}
