package sse

import (
	"strings"
	"testing"
)

func TestLineBufferSingleCompleteLine(t *testing.T) {
	var buffer LineBuffer
	lines := buffer.Write([]byte("data: hello\n"))
	if len(lines) != 1 || lines[0] != "data: hello" {
		t.Fatalf("got %q, want one line %q", lines, "data: hello")
	}
	if buffer.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", buffer.Pending())
	}
}

func TestLineBufferLineSplitAcrossFragments(t *testing.T) {
	var buffer LineBuffer

	if lines := buffer.Write([]byte("data: hel")); lines != nil {
		t.Fatalf("incomplete fragment yielded lines: %q", lines)
	}
	if buffer.Pending() == 0 {
		t.Error("expected pending bytes after partial fragment")
	}

	lines := buffer.Write([]byte("lo\n"))
	if len(lines) != 1 || lines[0] != "data: hello" {
		t.Fatalf("got %q, want %q", lines, "data: hello")
	}
}

func TestLineBufferMultipleLinesInOneFragment(t *testing.T) {
	var buffer LineBuffer
	lines := buffer.Write([]byte("first\nsecond\nthird\npartial"))
	want := []string{"first", "second", "third"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(lines), lines, len(want))
	}
	for position, line := range want {
		if lines[position] != line {
			t.Errorf("lines[%d] = %q, want %q", position, lines[position], line)
		}
	}
	if buffer.Pending() != len("partial") {
		t.Errorf("Pending() = %d, want %d", buffer.Pending(), len("partial"))
	}
}

func TestLineBufferCRLFStripped(t *testing.T) {
	var buffer LineBuffer
	lines := buffer.Write([]byte("data: a\r\ndata: b\r\n"))
	if len(lines) != 2 || lines[0] != "data: a" || lines[1] != "data: b" {
		t.Fatalf("got %q, want CRLF-stripped lines", lines)
	}
}

func TestLineBufferEmptyLinesPreserved(t *testing.T) {
	var buffer LineBuffer
	lines := buffer.Write([]byte("a\n\nb\n"))
	if len(lines) != 3 {
		t.Fatalf("got %d lines %q, want 3", len(lines), lines)
	}
	if lines[1] != "" {
		t.Errorf("lines[1] = %q, want empty", lines[1])
	}
}

// TestLineBufferRuneSplitAcrossFragments verifies that a multi-byte rune
// split across two transport fragments is reassembled intact rather than
// replaced. Decoding happens per complete line, not per fragment.
func TestLineBufferRuneSplitAcrossFragments(t *testing.T) {
	const text = "héllo wörld ☀"
	encoded := []byte("data: " + text + "\n")

	// Split in the middle of every possible byte position and verify each
	// split produces the same intact line.
	for split := 1; split < len(encoded); split++ {
		var buffer LineBuffer
		var lines []string
		lines = append(lines, buffer.Write(encoded[:split])...)
		lines = append(lines, buffer.Write(encoded[split:])...)

		if len(lines) != 1 {
			t.Fatalf("split %d: got %d lines, want 1", split, len(lines))
		}
		if lines[0] != "data: "+text {
			t.Fatalf("split %d: got %q, want %q", split, lines[0], "data: "+text)
		}
	}
}

func TestLineBufferInvalidUTF8Replaced(t *testing.T) {
	var buffer LineBuffer
	lines := buffer.Write([]byte{'a', 0xFF, 'b', '\n'})
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if !strings.Contains(lines[0], "�") {
		t.Errorf("got %q, want replacement character for invalid byte", lines[0])
	}
	if !strings.HasPrefix(lines[0], "a") || !strings.HasSuffix(lines[0], "b") {
		t.Errorf("got %q, want valid bytes preserved around replacement", lines[0])
	}
}

func TestLineBufferEmptyFragmentIsNoop(t *testing.T) {
	var buffer LineBuffer
	buffer.Write([]byte("pending"))
	if lines := buffer.Write(nil); lines != nil {
		t.Errorf("empty fragment yielded lines: %q", lines)
	}
	if buffer.Pending() != len("pending") {
		t.Errorf("Pending() = %d, want %d", buffer.Pending(), len("pending"))
	}
}

// A trailing partial line is held forever; it is only emitted once its
// delimiter arrives. Callers at end of stream simply stop writing.
func TestLineBufferTrailingPartialNeverEmitted(t *testing.T) {
	var buffer LineBuffer
	if lines := buffer.Write([]byte("never terminated")); lines != nil {
		t.Fatalf("got %q, want no lines", lines)
	}
	if buffer.Pending() != len("never terminated") {
		t.Errorf("Pending() = %d, want %d", buffer.Pending(), len("never terminated"))
	}
}
