// Package utils provides shared low-level helpers used throughout the
// library internals: HTTP request helpers for both synchronous and streaming
// (SSE) communication with the NeuralWatt API, lenient JSON parsing, and
// small pointer/string utilities.
//
// Key entry points: [DoPostSync] for synchronous JSON round-trips,
// [DoPostStream] for requests whose body is left open for SSE consumption,
// and [ParseStringAs] for parsing model-emitted JSON with automatic repair.
package utils
