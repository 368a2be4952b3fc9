package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/leofalp/weathercalc/core/dispatch"
	"github.com/leofalp/weathercalc/providers/observability"
	"github.com/leofalp/weathercalc/providers/tool"
)

const (
	// Name is the server name reported during initialization.
	Name = "weather-calculator"

	// Version is the server version reported during initialization.
	Version = "0.2.0"

	// EndpointPath is where the streamable HTTP transport is mounted.
	EndpointPath = "/mcp"

	shutdownTimeout = 5 * time.Second
)

// Server adapts a [dispatch.Dispatcher] to an MCP server.
type Server struct {
	dispatcher *dispatch.Dispatcher
	mcp        *mcpserver.MCPServer
	observer   observability.Provider
	logger     *slog.Logger
}

// Option configures a [Server].
type Option func(*Server)

// WithObserver logs transport lifecycle events through observer.
func WithObserver(observer observability.Provider) Option {
	return func(s *Server) {
		s.observer = observer
	}
}

// WithLogger sets the logger handed to the MCP transports for their own
// diagnostics. It defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New registers every tool of d with a new MCP server.
func New(d *dispatch.Dispatcher, opts ...Option) (*Server, error) {
	s := &Server{
		dispatcher: d,
		mcp: mcpserver.NewMCPServer(Name, Version,
			mcpserver.WithToolCapabilities(false),
			mcpserver.WithRecovery(),
		),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, desc := range d.Tools() {
		mcpTool, err := toMCPTool(desc)
		if err != nil {
			return nil, err
		}
		s.mcp.AddTool(mcpTool, s.handleCall)
	}
	return s, nil
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

func toMCPTool(desc tool.Description) (mcp.Tool, error) {
	schema, err := json.Marshal(desc.Parameters)
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("encoding input schema of %s: %w", desc.Name, err)
	}
	mcpTool := mcp.NewToolWithRawSchema(desc.Name, desc.Description, schema)
	mcpTool.Annotations = mcp.ToolAnnotation{
		ReadOnlyHint:  mcp.ToBoolPtr(desc.ReadOnly),
		OpenWorldHint: mcp.ToBoolPtr(desc.OpenWorld),
	}
	return mcpTool, nil
}

// handleCall forwards a tools/call request to the dispatcher. Tool failures
// come back as error-flagged results; only an unknown tool becomes a
// JSON-RPC error.
func (s *Server) handleCall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp, err := s.dispatcher.Handle(ctx, dispatch.Request{
		Name:      req.Params.Name,
		Arguments: req.GetArguments(),
	})
	if err != nil {
		return nil, err
	}

	result := &mcp.CallToolResult{IsError: resp.IsError}
	for _, c := range resp.Content {
		result.Content = append(result.Content, mcp.NewTextContent(c.Text))
	}
	return result, nil
}

// HandleMessage processes a single JSON-RPC message, as the transports do.
func (s *Server) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	return s.mcp.HandleMessage(ctx, message)
}

// ServeStdio serves newline-delimited JSON-RPC on in and out until in is
// exhausted or ctx is cancelled. Diagnostics never go to out.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := mcpserver.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	s.info(ctx, "Weather & Calculator MCP server running on stdio",
		observability.String(observability.AttrTransport, "stdio"))

	err := stdio.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Handler returns the streamable HTTP transport as an http.Handler.
func (s *Server) Handler() http.Handler {
	return mcpserver.NewStreamableHTTPServer(s.mcp,
		mcpserver.WithStateLess(true),
		mcpserver.WithLogger(transportLogger{s.logger}),
	)
}

// ListenAndServe serves the streamable HTTP transport on addr at
// [EndpointPath] until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(EndpointPath, s.Handler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.info(ctx, "Weather & Calculator MCP server listening",
		observability.String(observability.AttrTransport, "http"),
		observability.String(observability.AttrListenAddr, addr+EndpointPath))

	select {
	case err := <-errCh:
		return fmt.Errorf("http transport: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http transport: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http transport: %w", err)
	}
	return nil
}

func (s *Server) info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	if s.observer != nil {
		s.observer.Info(ctx, msg, attrs...)
	}
}

// transportLogger routes mcp-go transport diagnostics to slog.
type transportLogger struct {
	logger *slog.Logger
}

func (l transportLogger) Infof(format string, v ...any) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l transportLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...))
}
