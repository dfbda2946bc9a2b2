// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics, and structured logging throughout the library.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics],
// and [Logger] into a single injectable dependency. Callers propagate an
// active [Provider] and [Span] through a [context.Context] using
// [ContextWithObserver] and [ContextWithSpan]; library internals retrieve
// them with [ObserverFromContext] and [SpanFromContext] and degrade to no-ops
// when absent.
//
// The semconv.go file contains the standard attribute-key, span-name, and
// metric-name constants, including the NeuralWatt energy telemetry
// attributes.
package observability
