// Package neuralwatt implements the ai provider interface for the NeuralWatt
// inference API. The API is OpenAI-compatible (/v1/chat/completions) with one
// vendor extension: per-request energy telemetry, delivered as SSE comment
// frames during streaming and embedded in the response body otherwise. The
// captured energy payload is attached verbatim to the final response under
// the reserved energy key.
//
// The main entry point is [New], which reads NEURALWATT_API_KEY and
// NEURALWATT_API_BASE_URL from the environment. Use
// [NeuralWattProvider.WithAPIKey] and [NeuralWattProvider.WithBaseURL] to
// override these values programmatically. Requests may name a model by its
// registry identifier or one of its aliases (see [Models]); the provider
// resolves the upstream identifier sent on the wire.
//
// Streaming is available through [NeuralWattProvider.StreamMessage], which
// returns an [ai.ChatStream] over incremental SSE events.
package neuralwatt
