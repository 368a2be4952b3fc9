// Package slogobs implements observability.Provider on top of log/slog.
//
// Spans, metric updates and log calls all become slog records written by
// [Handler] in compact, pretty or JSON form. Output defaults to stderr because
// stdout is reserved for the stdio protocol stream.
package slogobs
