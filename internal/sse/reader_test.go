package sse

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

// collectFrames drains a FrameReader until io.EOF and returns the frames.
func collectFrames(t *testing.T, reader *FrameReader) []Frame {
	t.Helper()
	var frames []Frame
	for {
		frame, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return frames
		}
		if err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
		frames = append(frames, frame)
	}
}

func TestFrameReaderOrderingAndFiltering(t *testing.T) {
	body := strings.Join([]string{
		`data: {"id":"c-1"}`,
		``,
		`: keep-alive`,
		`data: {"id":"c-2"}`,
		``,
		`: energy {"energy_joules": 3.2}`,
		`data: [DONE]`,
		``,
	}, "\n")

	reader := NewFrameReader(strings.NewReader(body))
	frames := collectFrames(t, reader)

	wantKinds := []FrameKind{FrameContent, FrameComment, FrameContent, FrameMetering, FrameDone}
	if len(frames) != len(wantKinds) {
		t.Fatalf("got %d frames, want %d", len(frames), len(wantKinds))
	}
	for position, kind := range wantKinds {
		if frames[position].Kind != kind {
			t.Errorf("frames[%d].Kind = %v, want %v", position, frames[position].Kind, kind)
		}
	}
	if string(frames[0].Data) != `{"id":"c-1"}` {
		t.Errorf("frames[0].Data = %q", frames[0].Data)
	}
	if string(frames[2].Data) != `{"id":"c-2"}` {
		t.Errorf("frames[2].Data = %q", frames[2].Data)
	}
}

// Frame order must survive arbitrary transport fragmentation. iotest.OneByteReader
// forces the worst case: every read delivers a single byte.
func TestFrameReaderByteAtATime(t *testing.T) {
	body := "data: {\"id\":\"c-1\"}\n\n: energy {\"energy_joules\": 1.5}\ndata: [DONE]\n\n"
	reader := NewFrameReader(iotest.OneByteReader(strings.NewReader(body)))
	frames := collectFrames(t, reader)

	wantKinds := []FrameKind{FrameContent, FrameMetering, FrameDone}
	if len(frames) != len(wantKinds) {
		t.Fatalf("got %d frames, want %d", len(frames), len(wantKinds))
	}
	for position, kind := range wantKinds {
		if frames[position].Kind != kind {
			t.Errorf("frames[%d].Kind = %v, want %v", position, frames[position].Kind, kind)
		}
	}
}

// A trailing partial line at end of stream is discarded, never classified.
func TestFrameReaderDiscardsTrailingPartial(t *testing.T) {
	body := "data: {\"id\":\"c-1\"}\ndata: {\"id\":\"truncat"
	reader := NewFrameReader(strings.NewReader(body))
	frames := collectFrames(t, reader)

	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if frames[0].Kind != FrameContent || string(frames[0].Data) != `{"id":"c-1"}` {
		t.Errorf("unexpected frame: kind=%v data=%q", frames[0].Kind, frames[0].Data)
	}
}

func TestFrameReaderEmptyStream(t *testing.T) {
	reader := NewFrameReader(strings.NewReader(""))
	if _, err := reader.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("Next() error = %v, want io.EOF", err)
	}
}

func TestFrameReaderPropagatesTransportError(t *testing.T) {
	transportErr := errors.New("connection reset")
	source := io.MultiReader(
		strings.NewReader("data: {\"id\":\"c-1\"}\n"),
		iotest.ErrReader(transportErr),
	)

	reader := NewFrameReader(source)

	frame, err := reader.Next()
	if err != nil {
		t.Fatalf("first Next() error = %v", err)
	}
	if frame.Kind != FrameContent {
		t.Fatalf("first frame kind = %v, want FrameContent", frame.Kind)
	}

	if _, err := reader.Next(); !errors.Is(err, transportErr) {
		t.Fatalf("second Next() error = %v, want transport error", err)
	}
	// Error is sticky.
	if _, err := reader.Next(); !errors.Is(err, transportErr) {
		t.Fatalf("third Next() error = %v, want transport error", err)
	}
}

// Frames already buffered from a fragment that arrived alongside the error
// are delivered before the error surfaces.
func TestFrameReaderDrainsBufferedFramesBeforeError(t *testing.T) {
	transportErr := errors.New("broken pipe")
	source := io.MultiReader(
		strings.NewReader("data: {\"id\":\"a\"}\ndata: {\"id\":\"b\"}\n"),
		iotest.ErrReader(transportErr),
	)

	reader := NewFrameReader(source)
	for _, wantID := range []string{`{"id":"a"}`, `{"id":"b"}`} {
		frame, err := reader.Next()
		if err != nil {
			t.Fatalf("Next() error = %v before buffered frames drained", err)
		}
		if string(frame.Data) != wantID {
			t.Errorf("frame.Data = %q, want %q", frame.Data, wantID)
		}
	}
	if _, err := reader.Next(); !errors.Is(err, transportErr) {
		t.Fatalf("Next() error = %v, want transport error", err)
	}
}
