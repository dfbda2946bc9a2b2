// Package slogobs implements the observability.Provider interface on top of
// Go's standard library log/slog. Spans become paired start/end log records
// with durations, metrics are kept in memory and logged on update, and log
// calls map directly onto slog levels.
//
// Create one with [New], then attach it to a context with
// observability.ContextWithObserver so library internals pick it up.
package slogobs
