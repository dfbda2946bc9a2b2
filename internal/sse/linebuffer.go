package sse

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// LineBuffer reassembles complete lines from arbitrary byte fragments. The
// transport may split one logical line across fragments or pack several lines
// into a single fragment; the buffer retains the trailing partial line until
// its delimiter arrives.
//
// SSE framing requires a stream to terminate on a full line, so a leftover
// partial at end of stream is deliberately never emitted; callers simply
// stop writing.
//
// A LineBuffer is owned by exactly one stream consumer and is not safe for
// concurrent use.
type LineBuffer struct {
	pending []byte
}

// Write appends one transport fragment and returns all now-complete lines in
// arrival order, with the newline delimiter (and an optional preceding CR)
// stripped. Decoding never fails: invalid UTF-8 sequences are replaced with
// U+FFFD. Validation happens per complete line, so a multi-byte rune split
// across two fragments is reassembled intact.
func (buffer *LineBuffer) Write(fragment []byte) []string {
	if len(fragment) == 0 {
		return nil
	}
	buffer.pending = append(buffer.pending, fragment...)

	lastDelimiter := bytes.LastIndexByte(buffer.pending, '\n')
	if lastDelimiter < 0 {
		return nil
	}

	var lines []string
	for raw := range bytes.SplitSeq(buffer.pending[:lastDelimiter], []byte{'\n'}) {
		raw = bytes.TrimSuffix(raw, []byte{'\r'})
		lines = append(lines, strings.ToValidUTF8(string(raw), string(utf8.RuneError)))
	}

	remainder := buffer.pending[lastDelimiter+1:]
	buffer.pending = append(buffer.pending[:0], remainder...)
	return lines
}

// Pending returns the number of buffered bytes still awaiting a delimiter.
func (buffer *LineBuffer) Pending() int {
	return len(buffer.pending)
}
