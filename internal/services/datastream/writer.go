// File: internal/services/datastream/writer.go
package datastream

import (
	"io"
	"net/http"
)

// Writer emits tagged-line frames to an underlying stream, flushing after
// each frame when the stream supports it so deltas reach the client as they
// are produced.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewWriter wraps w. If w is an http.ResponseWriter that supports flushing,
// every frame is flushed immediately.
func NewWriter(w io.Writer) *Writer {
	sw := &Writer{w: w}
	if f, ok := w.(http.Flusher); ok {
		sw.flusher = f
	}
	return sw
}

// WriteText frames and writes one text delta.
func (w *Writer) WriteText(delta string) error {
	if delta == "" {
		return nil
	}
	if _, err := io.WriteString(w.w, EncodeText(delta)); err != nil {
		return err
	}
	if w.flusher != nil {
		w.flusher.Flush()
	}
	return nil
}
