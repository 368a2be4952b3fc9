package observability

// Attribute keys, span names, event names and metric names shared by every
// component that records observations.

// --- Tool Attributes ---

const (
	// AttrToolName is the protocol name of the tool being called
	AttrToolName = "tool.name"

	// AttrToolCallID identifies a single call across log lines
	AttrToolCallID = "tool.call_id"

	// AttrToolInput is the serialized tool arguments
	AttrToolInput = "tool.input"

	// AttrToolOutput is the rendered tool output
	AttrToolOutput = "tool.output"

	// AttrToolDuration is the execution duration
	AttrToolDuration = "tool.duration"

	// AttrToolError is the error message if the call failed
	AttrToolError = "tool.error"

	// AttrToolIsError reports whether the response was error-flagged
	AttrToolIsError = "tool.is_error"
)

// --- HTTP Attributes ---

const (
	AttrHTTPMethod           = "http.method"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPURL              = "http.url"
	AttrHTTPResponseBodySize = "http.response.body.size"
	AttrHTTPDuration         = "http.request.duration"
	// AttrHTTPResponseDetail is a readable excerpt of a non-2xx body.
	AttrHTTPResponseDetail = "http.response.detail"
)

// --- Transport Attributes ---

const (
	// AttrTransport is "stdio" or "http"
	AttrTransport = "mcp.transport"

	// AttrListenAddr is the listen address of the HTTP transport
	AttrListenAddr = "mcp.listen_addr"
)

// --- General Attributes ---

const (
	AttrError             = "error"
	AttrErrorType         = "error.type"
	AttrStatus            = "status"
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanToolCall is the span around one dispatched tool call
	SpanToolCall = "tool.call"
)

// --- Event Names ---

const (
	EventToolExecutionStart = "tool.execution.start"
	EventToolExecutionEnd   = "tool.execution.end"
	EventHTTPRequestError   = "http.request.error"
	EventHTTPResponse       = "http.response.received"
	EventHTTPResponseError  = "http.response.error"
	EventHTTPBodyRepaired   = "http.response.repaired"
)

// --- Metric Names ---

const (
	MetricToolCalls        = "weathercalc.tool.calls"
	MetricToolErrors       = "weathercalc.tool.errors"
	MetricToolCallDuration = "weathercalc.tool.duration_ms"
	MetricUnknownTool      = "weathercalc.tool.unknown"
)
