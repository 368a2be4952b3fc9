package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/weathercalc/core/dispatch"
	"github.com/leofalp/weathercalc/providers/tool"
	"github.com/leofalp/weathercalc/providers/tool/calculator"
	"github.com/leofalp/weathercalc/providers/tool/exchange"
	"github.com/leofalp/weathercalc/providers/tool/weather"
)

type rpcResponse struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type listResult struct {
	Tools []struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		InputSchema map[string]any `json:"inputSchema"`
		Annotations struct {
			ReadOnlyHint  *bool `json:"readOnlyHint"`
			OpenWorldHint *bool `json:"openWorldHint"`
		} `json:"annotations"`
	} `json:"tools"`
}

type callResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func newTestServer(t *testing.T, upstreamURL string) *Server {
	t.Helper()
	d := dispatch.New(tool.NewCatalog(
		calculator.NewCalculatorTool(),
		weather.NewWeatherTool(weather.NewClient(weather.WithBaseURL(upstreamURL))),
		exchange.NewExchangeRatesTool(exchange.NewClient(exchange.WithBaseURL(upstreamURL))),
	))
	s, err := New(d)
	require.NoError(t, err)
	return s
}

func handle(t *testing.T, s *Server, message string) rpcResponse {
	t.Helper()
	raw, err := json.Marshal(s.HandleMessage(context.Background(), json.RawMessage(message)))
	require.NoError(t, err)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	return resp
}

func TestListTools(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:0")

	resp := handle(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	require.Nil(t, resp.Error)

	var result listResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.Len(t, result.Tools, 3)

	byName := map[string]int{}
	for i, tl := range result.Tools {
		byName[tl.Name] = i
	}
	require.Contains(t, byName, "calculate")
	require.Contains(t, byName, "get_weather")
	require.Contains(t, byName, "get_exchange_rates")

	calc := result.Tools[byName["calculate"]]
	assert.Equal(t, "Perform basic arithmetic calculations", calc.Description)
	assert.Equal(t, []any{"expression"}, calc.InputSchema["required"])
	require.NotNil(t, calc.Annotations.OpenWorldHint)
	assert.False(t, *calc.Annotations.OpenWorldHint)

	rates := result.Tools[byName["get_exchange_rates"]]
	assert.NotContains(t, rates.InputSchema, "required")
	base := rates.InputSchema["properties"].(map[string]any)["base"].(map[string]any)
	assert.Equal(t, "USD", base["default"])
	assert.Equal(t, "Base currency (default: USD)", base["description"])

	weatherTool := result.Tools[byName["get_weather"]]
	require.NotNil(t, weatherTool.Annotations.ReadOnlyHint)
	assert.True(t, *weatherTool.Annotations.ReadOnlyHint)
	assert.True(t, *weatherTool.Annotations.OpenWorldHint)
}

func TestCallTool_Success(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:0")

	resp := handle(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"calculate","arguments":{"expression":"(3+4)*2"}}}`)
	require.Nil(t, resp.Error)

	var result callResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "text", result.Content[0].Type)
	assert.Equal(t, "Result: (3+4)*2 = 14", result.Content[0].Text)
}

func TestCallTool_ToolFailureIsResult(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()
	s := newTestServer(t, upstream.URL)

	resp := handle(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_weather","arguments":{"city":"London"}}}`)
	require.Nil(t, resp.Error)

	var result callResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "Weather Error: Weather API error: 502", result.Content[0].Text)
}

func TestCallTool_UnknownToolIsProtocolError(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:0")

	resp := handle(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"unknown_tool","arguments":{}}}`)

	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "unknown_tool")
	assert.Empty(t, resp.Result)
}

func TestHandleCall_DispatcherErrorPropagates(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:0")

	var req mcp.CallToolRequest
	req.Params.Name = "not_registered"
	_, err := s.handleCall(context.Background(), req)

	require.Error(t, err)
	assert.ErrorIs(t, err, dispatch.ErrUnknownTool)
	assert.Equal(t, "Unknown tool: not_registered", err.Error())
}

func TestServeStdio(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:0")

	inReader, inWriter := io.Pipe()
	outReader, outWriter := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.ServeStdio(ctx, inReader, outWriter)
	}()

	go func() {
		_, _ = io.WriteString(inWriter,
			`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"calculate","arguments":{"expression":"2 + 2"}}}`+"\n")
	}()

	line, err := bufio.NewReader(outReader).ReadBytes('\n')
	require.NoError(t, err)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(line, &resp))
	assert.Equal(t, 7, resp.ID)

	var result callResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "Result: 2 + 2 = 4", result.Content[0].Text)

	cancel()
	_ = inWriter.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ServeStdio did not return after cancellation")
	}
}

func TestHandler_StreamableHTTP(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:0")
	httpServer := httptest.NewServer(s.Handler())
	defer httpServer.Close()

	body := `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"calculate","arguments":{"expression":"10 * 5"}}}`
	res, err := http.Post(httpServer.URL, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(raw), &resp))
	var result callResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	assert.Equal(t, "Result: 10 * 5 = 50", result.Content[0].Text)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.ListenAndServe(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("ListenAndServe did not stop after cancellation")
	}
}
