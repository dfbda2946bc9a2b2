// Package ai defines the provider-agnostic types and interfaces for chat
// completions: [ChatRequest] and [Message] on the way in, [ChatResponse] on
// the way out, and the [Provider]/[StreamProvider] interfaces a vendor
// implementation must satisfy.
//
// For streaming, [ChatStream] wraps the provider's event iterator and
// accumulates every observed delta into one merged final response. The same
// accumulation path backs both consumption models: pull-based iteration via
// [ChatStream.Iter] or [ChatStream.Text], and channel-based consumption via
// [ChatStream.Channel]. After the stream is drained, [ChatStream.Final]
// returns the merged result, including any energy telemetry the server
// reported out-of-band.
package ai
