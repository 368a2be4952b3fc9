package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leofalp/weathercalc/internal/httpx"
	"github.com/leofalp/weathercalc/providers/observability"
	"github.com/leofalp/weathercalc/providers/tool"
)

// ErrUnknownTool matches, via errors.Is, the error returned by
// [Dispatcher.Handle] for a tool name that is not in the catalog.
var ErrUnknownTool = errors.New("unknown tool")

// UnknownToolError carries the requested name. Its message is
// "Unknown tool: {name}".
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return "Unknown tool: " + e.Name
}

func (e *UnknownToolError) Is(target error) bool {
	return target == ErrUnknownTool
}

// Request is a single tool invocation.
type Request struct {
	Name      string
	Arguments map[string]any
}

// ContentTypeText is the only content type produced by the tools.
const ContentTypeText = "text"

// Content is one item of a response.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Response is the outcome of a tool call. IsError is set when the tool
// failed; the failure is described by the single text item.
type Response struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Text returns the concatenated text of all content items.
func (r Response) Text() string {
	if len(r.Content) == 1 {
		return r.Content[0].Text
	}
	var text string
	for _, c := range r.Content {
		text += c.Text
	}
	return text
}

func textResponse(text string, isError bool) Response {
	return Response{Content: []Content{{Type: ContentTypeText, Text: text}}, IsError: isError}
}

// Dispatcher routes requests to the tools of an immutable catalog. It holds
// no per-call state and is safe for concurrent use.
type Dispatcher struct {
	catalog  *tool.Catalog
	observer observability.Provider
}

// Option configures a [Dispatcher].
type Option func(*Dispatcher)

// WithObserver enables spans, metrics and logs for every call.
func WithObserver(observer observability.Provider) Option {
	return func(d *Dispatcher) {
		d.observer = observer
	}
}

// New returns a dispatcher over catalog.
func New(catalog *tool.Catalog, opts ...Option) *Dispatcher {
	if catalog == nil {
		catalog = tool.NewCatalog()
	}
	d := &Dispatcher{catalog: catalog}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Tools returns the advertised tools in registration order.
func (d *Dispatcher) Tools() []tool.Description {
	return d.catalog.Descriptions()
}

// Catalog returns the catalog the dispatcher serves.
func (d *Dispatcher) Catalog() *tool.Catalog {
	return d.catalog
}

// Handle runs the named tool. It returns an error only for unknown tool
// names; every other outcome, including a panicking tool, is a [Response].
func (d *Dispatcher) Handle(ctx context.Context, req Request) (Response, error) {
	t, ok := d.catalog.Get(req.Name)
	if !ok {
		err := &UnknownToolError{Name: req.Name}
		if d.observer != nil {
			d.observer.Counter(observability.MetricUnknownTool).Add(ctx, 1,
				observability.String(observability.AttrToolName, req.Name))
			d.observer.Warn(ctx, "unknown tool requested",
				observability.String(observability.AttrToolName, req.Name))
		}
		return Response{}, err
	}

	if d.observer == nil {
		response, _ := d.execute(ctx, t, req)
		return response, nil
	}
	return d.executeObserved(ctx, t, req), nil
}

func (d *Dispatcher) executeObserved(ctx context.Context, t tool.GenericTool, req Request) Response {
	callID := uuid.NewString()
	attrs := []observability.Attribute{
		observability.String(observability.AttrToolName, req.Name),
		observability.String(observability.AttrToolCallID, callID),
	}

	// 1. Start the span; tools attach their events to it through ctx.
	ctx, span := d.observer.StartSpan(ctx, observability.SpanToolCall, attrs...)
	defer span.End()

	d.observer.Debug(ctx, "tool call", attrs...)

	// 2. Run the tool.
	start := time.Now()
	response, callErr := d.execute(ctx, t, req)
	duration := time.Since(start)

	// 3. Record outcome.
	status := "ok"
	if response.IsError {
		status = "error"
		span.SetStatus(observability.StatusError, response.Text())
		d.observer.Counter(observability.MetricToolErrors).Add(ctx, 1, attrs...)
		failAttrs := append(attrs,
			observability.String(observability.AttrToolError, response.Text()),
			observability.Duration(observability.AttrToolDuration, duration),
		)
		var statusErr *httpx.StatusError
		if errors.As(callErr, &statusErr) && statusErr.Detail != "" {
			failAttrs = append(failAttrs,
				observability.String(observability.AttrHTTPResponseDetail, statusErr.Detail))
		}
		d.observer.Warn(ctx, "tool call failed", failAttrs...)
	} else {
		span.SetStatus(observability.StatusOK, "")
		d.observer.Info(ctx, "tool call completed", append(attrs,
			observability.Duration(observability.AttrToolDuration, duration),
		)...)
	}
	span.SetAttributes(observability.Bool(observability.AttrToolIsError, response.IsError))

	d.observer.Counter(observability.MetricToolCalls).Add(ctx, 1, append(attrs,
		observability.String(observability.AttrStatus, status))...)
	d.observer.Histogram(observability.MetricToolCallDuration).Record(ctx,
		float64(duration.Microseconds())/1000, attrs...)

	return response
}

// execute runs t and also returns the tool's error for logging.
func (d *Dispatcher) execute(ctx context.Context, t tool.GenericTool, req Request) (Response, error) {
	text, err := call(ctx, t, req.Arguments)
	if err != nil {
		return textResponse(fmt.Sprintf("%s: %s", t.ErrorPrefix(), err.Error()), true), err
	}
	return textResponse(text, false), nil
}

// call runs t with args, converting a panic into an error.
func call(ctx context.Context, t tool.GenericTool, args map[string]any) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if args == nil {
		args = map[string]any{}
	}
	input, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return t.Call(ctx, string(input))
}
