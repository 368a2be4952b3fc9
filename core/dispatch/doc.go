// Package dispatch routes tool calls to the tools of a fixed catalog and
// turns every outcome into exactly one response.
//
// Tool failures, including panics, become error-flagged responses whose text
// starts with the tool's error prefix. The only failure surfaced as an error
// is a call to a tool that does not exist ([ErrUnknownTool]), which transport
// layers report as a protocol-level error.
package dispatch
