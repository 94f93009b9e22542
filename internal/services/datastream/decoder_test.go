// File: internal/services/datastream/decoder_test.go
package datastream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAll(t *testing.T, chunks []string) string {
	t.Helper()
	d := NewDecoder()
	var out strings.Builder
	for _, c := range chunks {
		out.WriteString(d.Decode(c))
	}
	out.WriteString(d.Flush())
	return out.String()
}

func TestDecodeSingleChunk(t *testing.T) {
	stream := EncodeText("Could you give me ") + EncodeText("a bit more time?")
	got := decodeAll(t, []string{stream})
	assert.Equal(t, "Could you give me a bit more time?", got)
}

func TestDecodeEscapedPayload(t *testing.T) {
	stream := EncodeText("\"Sure,\" she said.\n") + EncodeText("もちろんです。")
	got := decodeAll(t, []string{stream})
	assert.Equal(t, "\"Sure,\" she said.\nもちろんです。", got)
}

func TestChunkBoundaryInvariance(t *testing.T) {
	stream := EncodeText("Would it be possible ") +
		EncodeText("to extend the deadline?") +
		EncodeText("\n締め切りを延ばすことは可能でしょうか？")
	want := decodeAll(t, []string{stream})
	require.NotEmpty(t, want)

	// Re-split the same byte stream at every boundary, including splits in
	// the middle of frames and multi-byte runes.
	for cut := 1; cut < len(stream); cut++ {
		got := decodeAll(t, []string{stream[:cut], stream[cut:]})
		assert.Equal(t, want, got, "split at byte %d", cut)
	}

	// Byte-at-a-time delivery.
	var single []string
	for i := 0; i < len(stream); i++ {
		single = append(single, stream[i:i+1])
	}
	assert.Equal(t, want, decodeAll(t, single))
}

func TestMalformedFramePassThrough(t *testing.T) {
	stream := EncodeText("first ") +
		"0:\"unterminated\n" + // malformed payload
		EncodeText("second")
	got := decodeAll(t, []string{stream})
	assert.Equal(t, "first 0:\"unterminated"+"second", got)
}

func TestUntaggedLinePassThrough(t *testing.T) {
	stream := EncodeText("hello ") + "plain text line\n" + EncodeText("world")
	got := decodeAll(t, []string{stream})
	assert.Equal(t, "hello plain text lineworld", got)
}

func TestControlFramesProduceNoText(t *testing.T) {
	stream := "2:{\"finishReason\":\"stop\"}\n" + EncodeText("kept") + "8:[]\n"
	got := decodeAll(t, []string{stream})
	assert.Equal(t, "kept", got)
}

func TestFlushDrainsTrailingPartialLine(t *testing.T) {
	d := NewDecoder()
	assert.Equal(t, "", d.Decode("0:\"tail\""))
	assert.Equal(t, "tail", d.Flush())
	// Decoder is reusable for nothing further; Flush resets state.
	assert.Equal(t, "", d.Flush())
}

func TestBlankLinesSkipped(t *testing.T) {
	stream := "\n\r\n" + EncodeText("text") + "\n"
	assert.Equal(t, "text", decodeAll(t, []string{stream}))
}

func TestParseLine(t *testing.T) {
	f := ParseLine("0:\"abc\"")
	assert.Equal(t, FrameText, f.Kind)
	assert.Equal(t, "abc", f.Text)

	f = ParseLine("3:{\"usage\":1}")
	assert.Equal(t, FrameControl, f.Kind)
	assert.Equal(t, 3, f.Tag)

	f = ParseLine("no tag here")
	assert.Equal(t, FrameRaw, f.Kind)
	assert.Equal(t, "no tag here", f.Text)
}
