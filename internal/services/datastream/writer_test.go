// File: internal/services/datastream/writer_test.go
package datastream

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterFramesDeltas(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)

	require.NoError(t, w.WriteText("Hello"))
	require.NoError(t, w.WriteText(`line "two"`))
	require.NoError(t, w.WriteText("こんにちは"))
	require.NoError(t, w.WriteText(""), "empty deltas are dropped, not framed")

	assert.Equal(t, "0:\"Hello\"\n0:\"line \\\"two\\\"\"\n0:\"こんにちは\"\n", sb.String())
}

func TestWriterOutputSurvivesDecoding(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)
	require.NoError(t, w.WriteText("It's a \"great\" day!\nNew line."))

	var d Decoder
	got := d.Decode(sb.String()) + d.Flush()
	assert.Equal(t, "It's a \"great\" day!\nNew line.", got)
}

func TestWriterFlushesResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewWriter(rec)

	require.NoError(t, w.WriteText("chunk"))
	assert.True(t, rec.Flushed)
}
