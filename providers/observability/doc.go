// Package observability defines the tracing, metrics and logging interfaces
// used by the tool dispatcher, the tools and the shared HTTP helper.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into one injectable
// dependency. The active [Span] travels through a [context.Context] via
// [ContextWithSpan] and [SpanFromContext], so that leaf code such as an HTTP
// request can add events without knowing who started the span.
//
// Attribute keys, span names and metric names live in semconv.go.
package observability
