// File: internal/services/datastream/decoder.go
package datastream

import "strings"

// Decoder reassembles text deltas from raw transport chunks. Chunk
// boundaries need not align with frame boundaries: a frame may be split
// across chunks, and one chunk may carry several frames. The decoder keeps
// the trailing partial line in a remainder buffer until its newline arrives.
//
// Decoding never fails; malformed frames pass through verbatim. The decoder
// returns delta text only, accumulation is the caller's responsibility.
type Decoder struct {
	remainder string
}

// NewDecoder returns a decoder for one logical stream. A Decoder must not be
// shared between streams.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode consumes one transport chunk and returns the decoded text delta it
// completes. Text order follows frame arrival order.
func (d *Decoder) Decode(chunk string) string {
	data := d.remainder + chunk
	var out strings.Builder

	for {
		nl := strings.IndexByte(data, '\n')
		if nl < 0 {
			break
		}
		line := strings.TrimSuffix(data[:nl], "\r")
		data = data[nl+1:]
		out.WriteString(decodeLine(line))
	}

	d.remainder = data
	return out.String()
}

// Flush drains any trailing partial line at end of stream, treating it as a
// complete frame. After Flush the decoder is reset.
func (d *Decoder) Flush() string {
	line := strings.TrimSuffix(d.remainder, "\r")
	d.remainder = ""
	return decodeLine(line)
}

func decodeLine(line string) string {
	if strings.TrimSpace(line) == "" {
		return ""
	}
	frame := ParseLine(line)
	switch frame.Kind {
	case FrameText, FrameRaw:
		return frame.Text
	default:
		return ""
	}
}
