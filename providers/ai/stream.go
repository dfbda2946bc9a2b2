package ai

import (
	"context"
	"encoding/json"
	"iter"
	"strings"

	"github.com/neuralwatt/neuralwatt-go/internal/utils"
)

// StreamEventType identifies the kind of delta carried by a StreamEvent.
type StreamEventType string

const (
	// StreamEventContent indicates a text content delta.
	StreamEventContent StreamEventType = "content"
	// StreamEventToolCall indicates an incremental tool call delta (name or arguments chunk).
	StreamEventToolCall StreamEventType = "tool_call"
	// StreamEventReasoning indicates a reasoning/thinking text delta.
	StreamEventReasoning StreamEventType = "reasoning"
	// StreamEventUsage carries token usage metadata (typically near the end of the stream).
	StreamEventUsage StreamEventType = "usage"
	// StreamEventDone signals that the stream has finished normally.
	StreamEventDone StreamEventType = "done"
	// StreamEventMetering carries an out-of-band energy telemetry payload.
	StreamEventMetering StreamEventType = "metering"
	// StreamEventMeta carries chunk envelope metadata (id, model, created, role).
	StreamEventMeta StreamEventType = "meta"
)

// ToolCallDelta represents an incremental update to a tool call being
// streamed. Index identifies which tool call is being updated (there may be
// several in flight). ID and Name are only present on the first chunk for a
// given index; subsequent chunks carry only Arguments fragments, which must
// be concatenated in arrival order.
type ToolCallDelta struct {
	Index     int    `json:"index"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// StreamMeta carries the stable envelope fields of a completion chunk.
// Servers repeat them on every chunk; the accumulator keeps the first
// non-empty value for each.
type StreamMeta struct {
	ID      string      `json:"id,omitempty"`
	Model   string      `json:"model,omitempty"`
	Object  string      `json:"object,omitempty"`
	Created int64       `json:"created,omitempty"`
	Role    MessageRole `json:"role,omitempty"`
}

// StreamEvent represents a single delta yielded during response streaming.
// Each event carries exactly one type of payload, identified by Type.
type StreamEvent struct {
	Type         StreamEventType `json:"type"`
	Content      string          `json:"content,omitempty"`
	Reasoning    string          `json:"reasoning,omitempty"`
	ToolCall     *ToolCallDelta  `json:"tool_call,omitempty"`
	Usage        *Usage          `json:"usage,omitempty"`
	FinishReason string          `json:"finish_reason,omitempty"`
	Energy       json.RawMessage `json:"energy,omitempty"`
	Meta         *StreamMeta     `json:"meta,omitempty"`
}

// ChatStream wraps a provider's streaming iterator and accumulates every
// observed delta into one merged final response. The sequence is lazy,
// finite, and not restartable: consume it exactly once, through whichever
// access method fits the caller.
//
//   - [ChatStream.Iter] and [ChatStream.Text] are pull-based; the network
//     read happens inline with each request for the next event.
//   - [ChatStream.Channel] drains the same iterator on a goroutine for
//     callers that consume with select loops.
//
// All paths observe through the same accumulator, so the final response is
// identical regardless of how the stream was consumed.
//
// Important: callers must consume the stream, either by iterating (including
// breaking out of the loop early) or by calling Collect. The provider holds
// the HTTP response body open until the iterator completes or is abandoned
// via a loop break; constructing a ChatStream and never consuming it leaks
// that resource.
type ChatStream struct {
	iterator iter.Seq2[StreamEvent, error]
	state    responseAccumulator
	err      error
	final    *ChatResponse
}

// NewChatStream creates a ChatStream from a raw streaming iterator. The
// iterator is expected to yield StreamEvent values (with nil error) for
// normal deltas, and may yield a non-nil error to signal a mid-stream
// failure, after which it must stop.
func NewChatStream(iterator iter.Seq2[StreamEvent, error]) *ChatStream {
	return &ChatStream{iterator: iterator}
}

// NewSingleEventStream wraps an already-complete ChatResponse as a stream.
// Used as a fallback when a caller wants the streaming surface but the
// response was produced by the non-streaming endpoint.
func NewSingleEventStream(response *ChatResponse) *ChatStream {
	iteratorFunc := func(yield func(StreamEvent, error) bool) {
		meta := &StreamMeta{
			ID:      response.Id,
			Model:   response.Model,
			Object:  response.Object,
			Created: response.Created,
			Role:    response.Role,
		}
		if !yield(StreamEvent{Type: StreamEventMeta, Meta: meta}, nil) {
			return
		}

		if response.Reasoning != "" {
			if !yield(StreamEvent{Type: StreamEventReasoning, Reasoning: response.Reasoning}, nil) {
				return
			}
		}

		if response.Content != "" {
			if !yield(StreamEvent{Type: StreamEventContent, Content: response.Content}, nil) {
				return
			}
		}

		for toolIndex, toolCall := range response.ToolCalls {
			if !yield(StreamEvent{
				Type: StreamEventToolCall,
				ToolCall: &ToolCallDelta{
					Index:     toolIndex,
					ID:        toolCall.ID,
					Name:      toolCall.Function.Name,
					Arguments: toolCall.Function.Arguments,
				},
			}, nil) {
				return
			}
		}

		if response.Usage != nil {
			if !yield(StreamEvent{Type: StreamEventUsage, Usage: response.Usage}, nil) {
				return
			}
		}

		if len(response.Energy) > 0 {
			if !yield(StreamEvent{Type: StreamEventMetering, Energy: response.Energy}, nil) {
				return
			}
		}

		yield(StreamEvent{Type: StreamEventDone, FinishReason: response.FinishReason}, nil)
	}

	return NewChatStream(iteratorFunc)
}

// Iter returns the event iterator for use with range-over-func loops. Every
// event is recorded by the stream's accumulator before being yielded, so
// [ChatStream.Final] works after the loop regardless of what the caller did
// with the events.
//
// Example:
//
//	for event, err := range stream.Iter() {
//	    if err != nil { handle error }
//	    fmt.Print(event.Content)
//	}
func (stream *ChatStream) Iter() iter.Seq2[StreamEvent, error] {
	return func(yield func(StreamEvent, error) bool) {
		for event, err := range stream.iterator {
			if err != nil {
				stream.err = err
				yield(event, err)
				return
			}
			stream.state.observe(event)
			if !yield(event, nil) {
				return
			}
		}
	}
}

// Text returns the lazy sequence of content text fragments, in strict arrival
// order. All other event kinds still update the accumulator as a side effect
// of iteration, so after the sequence is drained [ChatStream.Final] carries
// tool calls, usage, and energy telemetry even though the caller only saw
// text.
func (stream *ChatStream) Text() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for event, err := range stream.Iter() {
			if err != nil {
				yield("", err)
				return
			}
			if event.Type == StreamEventContent && event.Content != "" {
				if !yield(event.Content, nil) {
					return
				}
			}
		}
	}
}

// Channel drains the stream on a dedicated goroutine and delivers events over
// a channel, for callers that consume with select loops rather than
// iterators. The events channel is closed when the stream ends; a terminal
// failure (including ctx cancellation) is delivered on the error channel.
// Cancelling ctx abandons the underlying iterator, which releases the
// provider's transport resources.
//
// Channel and Iter share one consumption path, so the events and the final
// response are identical across the two models.
func (stream *ChatStream) Channel(ctx context.Context) (<-chan StreamEvent, <-chan error) {
	events := make(chan StreamEvent)
	failures := make(chan error, 1)

	go func() {
		defer close(events)
		defer close(failures)
		for event, err := range stream.Iter() {
			if err != nil {
				failures <- err
				return
			}
			select {
			case events <- event:
			case <-ctx.Done():
				failures <- ctx.Err()
				return
			}
		}
	}()

	return events, failures
}

// Collect consumes the entire stream and returns the merged final response.
// This is a convenience for callers who want the complete response but still
// benefit from streaming transport (lower time-to-first-byte). A mid-stream
// error terminates collection and returns the partial accumulation alongside
// the error.
func (stream *ChatStream) Collect() (*ChatResponse, error) {
	for _, err := range stream.Iter() {
		if err != nil {
			return stream.state.finalize(), err
		}
	}
	return stream.Final()
}

// Final returns the merged final response. It is meaningful only after the
// stream has been fully drained; the snapshot is built once and repeated
// calls return the same result. If the stream terminated with an error, Final
// returns that error; a failed stream has no successful final result.
func (stream *ChatStream) Final() (*ChatResponse, error) {
	if stream.err != nil {
		return nil, stream.err
	}
	if stream.final == nil {
		stream.final = stream.state.finalize()
	}
	return stream.final, nil
}

// responseAccumulator is the mutable aggregation state for one stream. It is
// owned exclusively by the single goroutine draining the stream; no locking,
// because exactly one consumer drains one stream.
//
// Merge policy: content is append-only; id, model, object, created, and role
// are set once, first non-empty wins (stable across the stream); finish
// reason, usage, and energy are overwritten, last non-nil wins (servers send
// usage and the authoritative energy reading at the end of the stream).
// Tool-call fragments concatenate in arrival order within an index; distinct
// indices are independent and keep insertion order of first appearance.
type responseAccumulator struct {
	content      strings.Builder
	reasoning    strings.Builder
	meta         StreamMeta
	finishReason string
	usage        *Usage
	energy       json.RawMessage
	toolCalls    []*toolCallBuilder
}

// toolCallBuilder accumulates incremental tool call deltas for one index.
// Builders are held by pointer: a strings.Builder must not be copied once
// written to, and growing the accumulator's slice would otherwise do exactly
// that when new indices interleave with in-progress ones.
type toolCallBuilder struct {
	index     int
	id        string
	name      string
	arguments strings.Builder
}

func (state *responseAccumulator) observe(event StreamEvent) {
	switch event.Type {
	case StreamEventContent:
		state.content.WriteString(event.Content)

	case StreamEventReasoning:
		state.reasoning.WriteString(event.Reasoning)

	case StreamEventToolCall:
		if event.ToolCall != nil {
			state.accumulateToolCall(event.ToolCall)
		}

	case StreamEventUsage:
		if event.Usage != nil {
			state.usage = event.Usage
		}

	case StreamEventDone:
		if event.FinishReason != "" {
			state.finishReason = event.FinishReason
		}

	case StreamEventMetering:
		if len(event.Energy) > 0 {
			state.energy = event.Energy
		}

	case StreamEventMeta:
		if event.Meta != nil {
			state.mergeMeta(event.Meta)
		}
	}
}

func (state *responseAccumulator) mergeMeta(meta *StreamMeta) {
	if state.meta.ID == "" {
		state.meta.ID = meta.ID
	}
	if state.meta.Model == "" {
		state.meta.Model = meta.Model
	}
	if state.meta.Object == "" {
		state.meta.Object = meta.Object
	}
	if state.meta.Created == 0 {
		state.meta.Created = meta.Created
	}
	if state.meta.Role == "" {
		state.meta.Role = meta.Role
	}
}

func (state *responseAccumulator) accumulateToolCall(delta *ToolCallDelta) {
	var builder *toolCallBuilder
	for _, candidate := range state.toolCalls {
		if candidate.index == delta.Index {
			builder = candidate
			break
		}
	}
	if builder == nil {
		builder = &toolCallBuilder{index: delta.Index}
		state.toolCalls = append(state.toolCalls, builder)
	}

	if delta.ID != "" {
		builder.id = delta.ID
	}
	if delta.Name != "" {
		builder.name = delta.Name
	}
	if delta.Arguments != "" {
		builder.arguments.WriteString(delta.Arguments)
	}
}

// finalize builds the immutable final response snapshot. Tool-call argument
// strings are parsed here, exactly once: a string that fails to parse even
// after repair yields a per-call error marker rather than failing the result.
func (state *responseAccumulator) finalize() *ChatResponse {
	response := &ChatResponse{
		Id:           state.meta.ID,
		Model:        state.meta.Model,
		Object:       state.meta.Object,
		Created:      state.meta.Created,
		Role:         state.meta.Role,
		Content:      state.content.String(),
		Reasoning:    state.reasoning.String(),
		FinishReason: state.finishReason,
		Usage:        state.usage,
		Energy:       state.energy,
	}

	for _, builder := range state.toolCalls {
		response.ToolCalls = append(response.ToolCalls, ToolCall{
			ID:   builder.id,
			Type: "function",
			Function: ToolCallFunction{
				Name:      builder.name,
				Arguments: builder.arguments.String(),
			},
		})
	}
	response.ResolveToolCalls()

	return response
}

// ResolveToolCalls parses each tool call's accumulated argument string into
// an object and fills ResolvedToolCalls. Parsing happens exactly once per
// call: a string that is not valid JSON even after repair yields a per-call
// error marker instead of failing the response. An empty argument string is
// treated as a valid zero-argument call.
func (response *ChatResponse) ResolveToolCalls() {
	response.ResolvedToolCalls = response.ResolvedToolCalls[:0]
	for _, toolCall := range response.ToolCalls {
		resolved := ResolvedToolCall{ID: toolCall.ID, Name: toolCall.Function.Name}
		if arguments := toolCall.Function.Arguments; arguments != "" {
			if parsed, err := utils.ParseStringAs[map[string]any](arguments); err != nil {
				resolved.Error = err.Error()
			} else {
				resolved.Arguments = parsed
			}
		}
		response.ResolvedToolCalls = append(response.ResolvedToolCalls, resolved)
	}
}
