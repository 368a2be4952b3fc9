package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/leofalp/weathercalc/core/parse"
	"github.com/leofalp/weathercalc/internal/jsonschema"
	"github.com/leofalp/weathercalc/providers/observability"
)

// DefaultErrorPrefix is used for tools that do not set their own prefix.
const DefaultErrorPrefix = "Error"

// Result is the output of a successful tool call. Text renders it as the
// single text content item returned to the client.
type Result interface {
	Text() string
}

// Description advertises a tool to clients.
type Description struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"inputSchema"`
	ReadOnly    bool               `json:"readOnly"`
	// OpenWorld is set for tools that reach external services.
	OpenWorld bool `json:"openWorld"`
}

// Tool is a typed, callable tool. Use [NewTool] to construct one.
type Tool[I any, O Result] struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Prefix      string
	OpenWorld   bool
	Function    func(ctx context.Context, input I) (O, error)
}

// GenericTool is the type-erased view of a [Tool] used by the catalog and the
// dispatcher.
type GenericTool interface {
	// ToolInfo returns the metadata advertised to clients.
	ToolInfo() Description

	// Call decodes inputJson, runs the tool and returns the rendered text.
	Call(ctx context.Context, inputJson string) (string, error)

	// ErrorPrefix is prepended to error messages reported to the client.
	ErrorPrefix() string
}

type funcToolOptions struct {
	Description string
	ErrorPrefix string
	OpenWorld   bool
}

// WithDescription sets the human-readable description shown to clients.
func WithDescription(description string) func(tool *funcToolOptions) {
	return func(s *funcToolOptions) {
		s.Description = description
	}
}

// WithErrorPrefix sets the prefix of error messages, e.g. "Weather Error".
func WithErrorPrefix(prefix string) func(tool *funcToolOptions) {
	return func(s *funcToolOptions) {
		s.ErrorPrefix = prefix
	}
}

// WithOpenWorld marks the tool as calling an external service.
func WithOpenWorld() func(tool *funcToolOptions) {
	return func(s *funcToolOptions) {
		s.OpenWorld = true
	}
}

// NewTool constructs a [Tool]. The parameter schema is derived from I.
//
//	weatherTool := tool.NewTool("get_weather", client.Lookup,
//	    tool.WithDescription("Get current weather for a city"),
//	    tool.WithErrorPrefix("Weather Error"),
//	    tool.WithOpenWorld(),
//	)
func NewTool[I any, O Result](name string, function func(ctx context.Context, input I) (O, error), options ...func(tool *funcToolOptions)) *Tool[I, O] {
	toolOptions := &funcToolOptions{ErrorPrefix: DefaultErrorPrefix}
	for _, option := range options {
		option(toolOptions)
	}

	return &Tool[I, O]{
		Name:        name,
		Description: toolOptions.Description,
		Parameters:  jsonschema.Generate[I](),
		Prefix:      toolOptions.ErrorPrefix,
		OpenWorld:   toolOptions.OpenWorld,
		Function:    function,
	}
}

// ToolInfo returns the [Description] advertised for this tool.
func (t *Tool[I, O]) ToolInfo() Description {
	return Description{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
		ReadOnly:    true,
		OpenWorld:   t.OpenWorld,
	}
}

// ErrorPrefix returns the prefix used when reporting this tool's failures.
func (t *Tool[I, O]) ErrorPrefix() string {
	return t.Prefix
}

// Call decodes inputJson into I, runs the tool function and returns the
// output's text. When a span is present in ctx, start and end events are
// recorded on it together with the input, output and duration.
func (t *Tool[I, O]) Call(ctx context.Context, inputJson string) (string, error) {
	span := observability.SpanFromContext(ctx)

	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			observability.String(observability.AttrToolName, t.Name),
			observability.String(observability.AttrToolInput, inputJson),
		)
		defer span.AddEvent(observability.EventToolExecutionEnd)
	}

	start := time.Now()

	input, err := parse.ParseStringAs[I](inputJson)
	if err != nil {
		err = fmt.Errorf("invalid arguments: %w", err)
		if span != nil {
			span.RecordError(err)
			span.SetAttributes(observability.String(observability.AttrToolError, err.Error()))
		}
		return "", err
	}

	output, err := t.Function(ctx, input)
	duration := time.Since(start)

	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetAttributes(
				observability.String(observability.AttrToolError, err.Error()),
				observability.Duration(observability.AttrToolDuration, duration),
			)
		}
		return "", err
	}

	text := output.Text()

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrToolOutput, text),
			observability.Duration(observability.AttrToolDuration, duration),
		)
	}

	return text, nil
}
