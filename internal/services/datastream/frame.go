// File: internal/services/datastream/frame.go

// Package datastream implements the tagged-line streaming wire format used
// between the completion proxy and the suggestion pipeline. Each logical
// frame is one line of the form <tag>:<payload> where the tag is a small
// integer. Tag 0 carries a JSON-encoded text delta; other tags are control
// frames with no user-visible text.
package datastream

import (
	"encoding/json"
	"strconv"
	"strings"
)

// TextTag is the frame tag carrying suggestion text.
const TextTag = 0

// FrameKind discriminates parse results.
type FrameKind int

const (
	// FrameText is a recognized text-delta frame; Text holds the decoded payload.
	FrameText FrameKind = iota
	// FrameControl is a recognized non-text frame; it contributes no output.
	FrameControl
	// FrameRaw is an unrecognized or malformed line passed through verbatim
	// so no user-visible text is silently lost.
	FrameRaw
)

// Frame is one parsed line of the stream.
type Frame struct {
	Kind FrameKind
	Tag  int
	Text string // decoded payload for FrameText, the raw line for FrameRaw
}

// ParseLine classifies a single line of the wire format. It never fails: a
// line that cannot be parsed as a tagged frame degrades to FrameRaw.
func ParseLine(line string) Frame {
	colon := strings.IndexByte(line, ':')
	if colon <= 0 {
		return Frame{Kind: FrameRaw, Text: line}
	}

	tag, err := strconv.Atoi(line[:colon])
	if err != nil {
		return Frame{Kind: FrameRaw, Text: line}
	}

	if tag != TextTag {
		return Frame{Kind: FrameControl, Tag: tag}
	}

	var text string
	if err := json.Unmarshal([]byte(line[colon+1:]), &text); err != nil {
		// Malformed payload: fall back to the raw line rather than drop it.
		return Frame{Kind: FrameRaw, Tag: tag, Text: line}
	}
	return Frame{Kind: FrameText, Tag: tag, Text: text}
}

// EncodeText frames a text delta as one wire line, including the trailing
// newline.
func EncodeText(delta string) string {
	payload, _ := json.Marshal(delta)
	return strconv.Itoa(TextTag) + ":" + string(payload) + "\n"
}
