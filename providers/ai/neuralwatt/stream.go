package neuralwatt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/neuralwatt/neuralwatt-go/internal/sse"
	"github.com/neuralwatt/neuralwatt-go/internal/utils"
	"github.com/neuralwatt/neuralwatt-go/providers/ai"
	"github.com/neuralwatt/neuralwatt-go/providers/observability"
)

// StreamMessage implements ai.StreamProvider for the NeuralWatt chat
// completions endpoint. It sends a streaming request with stream=true and
// returns a ChatStream that yields incremental deltas as SSE frames arrive.
//
// NeuralWatt interleaves three kinds of frames on the wire: content chunks
// carrying deltas, ": energy" comment frames carrying metering payloads, and
// the terminating [DONE] sentinel. Classification happens in the sse package;
// this method maps classified frames onto stream events. Energy frames yield
// metering events, ordinary comments are skipped, and malformed chunk JSON is
// dropped so one bad line never aborts the stream.
func (provider *NeuralWattProvider) StreamMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	// Enrich span if present in context
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	if span != nil {
		span.AddEvent(observability.EventLLMRequestStart)
		span.SetAttributes(
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMEndpoint, provider.baseURL),
			observability.String(observability.AttrLLMModel, request.Model),
			observability.Bool(observability.AttrLLMStreaming, true),
		)
	}

	if observer != nil {
		observer.Trace(ctx, "NeuralWatt provider preparing streaming request",
			observability.String(observability.AttrLLMProvider, providerName),
			observability.String(observability.AttrLLMEndpoint, provider.baseURL),
			observability.String(observability.AttrLLMModel, request.Model),
			observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
			observability.Int(observability.AttrRequestToolsCount, len(request.Tools)),
		)
	}

	if err := provider.precheck(request, true); err != nil {
		return nil, err
	}

	chatRequest := requestToChatCompletion(request)

	// Enable streaming with usage reporting
	chatRequest.Stream = utils.Ptr(true)
	chatRequest.StreamOptions = &streamOptions{IncludeUsage: true}

	// Send the streaming request; the body is left open for SSE reading
	streamURL := provider.baseURL + chatCompletionsEndpoint
	httpResponse, err := utils.DoPostStream(ctx, provider.client, streamURL, provider.apiKey, chatRequest)
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "Streaming HTTP request failed", observability.Error(err))
		}
		return nil, err
	}

	frameReader := sse.NewFrameReader(httpResponse.Body)

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		// Ensure the response body is closed when the iterator is done
		defer utils.CloseWithLog(httpResponse.Body)

		for {
			// Check for context cancellation
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ctx.Err())
				return
			}

			frame, readErr := frameReader.Next()
			if errors.Is(readErr, io.EOF) {
				// Transport ended without a [DONE] sentinel. The accumulated
				// state is still a valid partial result.
				return
			}
			if readErr != nil {
				yield(ai.StreamEvent{}, fmt.Errorf("SSE read error: %w", readErr))
				return
			}

			switch frame.Kind {
			case sse.FrameDone:
				// Normal termination. Frames after [DONE] are never read.
				return

			case sse.FrameMetering:
				recordEnergy(ctx, span, observer, frame.Data)
				if !yield(ai.StreamEvent{Type: ai.StreamEventMetering, Energy: frame.Data}, nil) {
					return
				}

			case sse.FrameComment:
				// Standard SSE keep-alive or unparseable energy payload.
				continue

			case sse.FrameContent:
				chunk, parseErr := unmarshalStreamChunk(frame.Data)
				if parseErr != nil {
					// Droppable noise. The classifier already validated the
					// JSON, so this only fires on schema-level surprises.
					continue
				}
				for _, event := range chunkToStreamEvents(chunk) {
					if !yield(event, nil) {
						return // Caller stopped iterating
					}
				}
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// meteringReading extracts the well-known numeric fields of an energy payload
// for telemetry. The payload itself stays opaque; unknown fields pass through
// untouched on the response.
type meteringReading struct {
	EnergyJoules float64 `json:"energy_joules"`
	EnergyKWh    float64 `json:"energy_kwh"`
}

// recordEnergy reports one captured metering payload to the span and the
// energy histogram. Best-effort: an unreadable payload records nothing.
func recordEnergy(ctx context.Context, span observability.Span, observer observability.Provider, payload json.RawMessage) {
	var reading meteringReading
	if err := json.Unmarshal(payload, &reading); err != nil {
		return
	}

	if span != nil {
		span.AddEvent(observability.EventEnergyCaptured,
			observability.Float64(observability.AttrLLMEnergyJoules, reading.EnergyJoules),
			observability.Float64(observability.AttrLLMEnergyKWh, reading.EnergyKWh),
		)
	}
	if observer != nil && reading.EnergyJoules > 0 {
		observer.Histogram(observability.MetricEnergyJoules).Record(ctx, reading.EnergyJoules,
			observability.String(observability.AttrLLMProvider, providerName),
		)
	}
}
