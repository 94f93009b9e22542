// File: internal/services/markdown/renderer.go

// Package markdown renders stored suggestion text to HTML for display
// surfaces such as the bookmark list.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a renderer with hard line breaks, so the
// English-line / Japanese-line pairing of suggestions survives rendering.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// Render converts suggestion text to HTML. On failure the raw text is not
// returned as HTML; the caller falls back to plain-text display.
func (r *Renderer) Render(text string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
