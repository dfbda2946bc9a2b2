package sse

import (
	"encoding/json"
	"strings"
)

const (
	dataPrefix   = "data:"
	energyPrefix = ": energy "
	doneSentinel = "[DONE]"
)

// FrameKind identifies the classification of a single SSE line.
type FrameKind int

const (
	// FrameNone marks an empty or unparseable line. Droppable noise: the
	// transport is allowed to emit partial or garbage lines mid-stream.
	FrameNone FrameKind = iota

	// FrameContent carries one chat-completion chunk as a JSON payload.
	FrameContent

	// FrameMetering carries a NeuralWatt energy telemetry JSON object.
	FrameMetering

	// FrameComment is a standard SSE comment line, including energy lines
	// whose payload failed to parse (metering is best-effort).
	FrameComment

	// FrameDone marks the [DONE] sentinel terminating the stream.
	FrameDone
)

// Frame is one classified SSE line. Data is populated for FrameContent and
// FrameMetering; Raw preserves the original line for FrameComment. A Frame is
// ephemeral: it is consumed immediately by the aggregation layer and has no
// identity beyond its position in the sequence.
type Frame struct {
	Kind FrameKind
	Data json.RawMessage
	Raw  string
}

// Classify maps a single line of text to exactly one Frame. It is pure and
// total: every input yields a frame, never an error. Malformed metering
// payloads degrade to comments and malformed chunk JSON degrades to noise,
// so a single bad line can never abort a stream.
//
// Rules, in priority order:
//  1. empty line: noise
//  2. ": energy " prefix with a JSON object payload: metering
//  3. any other ":" prefix (including unparseable energy lines): comment
//  4. "data:" prefix: the [DONE] sentinel, a content chunk, or noise if the
//     payload is not valid JSON
//  5. anything else: noise
func Classify(line string) Frame {
	line = strings.TrimSpace(line)
	if line == "" {
		return Frame{Kind: FrameNone}
	}

	if strings.HasPrefix(line, energyPrefix) {
		payload := strings.TrimSpace(strings.TrimPrefix(line, energyPrefix))
		if isJSONObject(payload) {
			return Frame{Kind: FrameMetering, Data: json.RawMessage(payload)}
		}
		return Frame{Kind: FrameComment, Raw: line}
	}

	if strings.HasPrefix(line, ":") {
		return Frame{Kind: FrameComment, Raw: line}
	}

	if strings.HasPrefix(line, dataPrefix) {
		payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
		if payload == doneSentinel {
			return Frame{Kind: FrameDone}
		}
		if json.Valid([]byte(payload)) {
			return Frame{Kind: FrameContent, Data: json.RawMessage(payload)}
		}
		return Frame{Kind: FrameNone}
	}

	return Frame{Kind: FrameNone}
}

// isJSONObject reports whether payload parses as a JSON object. Metering
// payloads must be objects; bare values and arrays degrade to comments.
func isJSONObject(payload string) bool {
	var object map[string]json.RawMessage
	return json.Unmarshal([]byte(payload), &object) == nil
}
