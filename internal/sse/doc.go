// Package sse interprets the raw Server-Sent Events byte stream produced by
// the NeuralWatt chat-completions endpoint. It reassembles lines that the
// transport may split across chunk boundaries ([LineBuffer]), classifies each
// line into exactly one frame kind ([Classify]), and exposes a pull-based
// frame sequence over an io.Reader ([FrameReader]).
//
// Beyond standard SSE data and comment lines, the NeuralWatt API emits energy
// telemetry as comment frames of the form ": energy {json}". The classifier
// recognizes this dialect and surfaces the payload as a [FrameMetering] frame
// so the aggregation layer can attach it to the final response.
package sse
