package dispatch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leofalp/weathercalc/providers/observability"
	"github.com/leofalp/weathercalc/providers/observability/slogobs"
	"github.com/leofalp/weathercalc/providers/tool"
	"github.com/leofalp/weathercalc/providers/tool/calculator"
	"github.com/leofalp/weathercalc/providers/tool/exchange"
	"github.com/leofalp/weathercalc/providers/tool/weather"
)

type echoInput struct {
	Message string `json:"message"`
}

type echoOutput struct{ message string }

func (o echoOutput) Text() string { return o.message }

func newPanickingTool() tool.GenericTool {
	return tool.NewTool("explode", func(ctx context.Context, in echoInput) (echoOutput, error) {
		panic("boom")
	}, tool.WithErrorPrefix("Explode Error"))
}

func newFailingServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server
}

func newDispatcher(t *testing.T, upstreamURL string, opts ...Option) *Dispatcher {
	t.Helper()
	catalog := tool.NewCatalog(
		calculator.NewCalculatorTool(),
		weather.NewWeatherTool(weather.NewClient(weather.WithBaseURL(upstreamURL))),
		exchange.NewExchangeRatesTool(exchange.NewClient(exchange.WithBaseURL(upstreamURL))),
	)
	return New(catalog, opts...)
}

func TestHandle_Calculate(t *testing.T) {
	d := newDispatcher(t, "http://127.0.0.1:0")

	tests := []struct {
		expr string
		want string
	}{
		{"2 + 2", "Result: 2 + 2 = 4"},
		{"10 * 5", "Result: 10 * 5 = 50"},
		{"(3+4)*2", "Result: (3+4)*2 = 14"},
	}
	for _, tt := range tests {
		resp, err := d.Handle(context.Background(), Request{
			Name:      "calculate",
			Arguments: map[string]any{"expression": tt.expr},
		})
		require.NoError(t, err)
		assert.False(t, resp.IsError)
		require.Len(t, resp.Content, 1)
		assert.Equal(t, ContentTypeText, resp.Content[0].Type)
		assert.Equal(t, tt.want, resp.Content[0].Text)
	}
}

func TestHandle_CalculateInvalidCharacters(t *testing.T) {
	d := newDispatcher(t, "http://127.0.0.1:0")

	resp, err := d.Handle(context.Background(), Request{
		Name:      "calculate",
		Arguments: map[string]any{"expression": "2 + 2; alert(1)"},
	})

	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.Equal(t, "Error: Invalid characters in expression", resp.Text())
}

func TestHandle_CalculateSyntaxError(t *testing.T) {
	d := newDispatcher(t, "http://127.0.0.1:0")

	resp, err := d.Handle(context.Background(), Request{
		Name:      "calculate",
		Arguments: map[string]any{"expression": "(2 +"},
	})

	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.True(t, strings.HasPrefix(resp.Text(), "Error: "), resp.Text())
}

func TestHandle_UpstreamStatus(t *testing.T) {
	server := newFailingServer(t, http.StatusServiceUnavailable)
	d := newDispatcher(t, server.URL)

	resp, err := d.Handle(context.Background(), Request{
		Name:      "get_weather",
		Arguments: map[string]any{"city": "London"},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.Equal(t, "Weather Error: Weather API error: 503", resp.Text())

	resp, err = d.Handle(context.Background(), Request{Name: "get_exchange_rates"})
	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.Equal(t, "Exchange Rate Error: Exchange rate API error: 503", resp.Text())
}

func TestHandle_UpstreamDetailIsLogged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`<html><body><h1>Upstream Maintenance Window</h1></body></html>`))
	}))
	t.Cleanup(server.Close)

	var logs bytes.Buffer
	observer := slogobs.New(
		slogobs.WithFormat(slogobs.FormatJSON),
		slogobs.WithLevel(slog.LevelWarn),
		slogobs.WithOutput(&logs),
	)
	d := newDispatcher(t, server.URL, WithObserver(observer))

	resp, err := d.Handle(context.Background(), Request{
		Name:      "get_weather",
		Arguments: map[string]any{"city": "London"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Weather Error: Weather API error: 503", resp.Text())

	output := logs.String()
	assert.Contains(t, output, observability.AttrHTTPResponseDetail)
	assert.Contains(t, output, "# Upstream Maintenance Window")
	assert.NotContains(t, output, "<h1>")
}

func TestHandle_UnknownTool(t *testing.T) {
	d := newDispatcher(t, "http://127.0.0.1:0")

	resp, err := d.Handle(context.Background(), Request{Name: "unknown_tool"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTool))
	assert.Equal(t, "Unknown tool: unknown_tool", err.Error())
	assert.Empty(t, resp.Content)

	var unknown *UnknownToolError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "unknown_tool", unknown.Name)
}

func TestHandle_NamesAreCaseSensitive(t *testing.T) {
	d := newDispatcher(t, "http://127.0.0.1:0")

	_, err := d.Handle(context.Background(), Request{Name: "Calculate"})
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestHandle_PanicBecomesErrorResponse(t *testing.T) {
	d := New(tool.NewCatalog(newPanickingTool()))

	resp, err := d.Handle(context.Background(), Request{Name: "explode"})

	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.Equal(t, "Explode Error: internal error: boom", resp.Text())
}

func TestHandle_NilArguments(t *testing.T) {
	d := newDispatcher(t, "http://127.0.0.1:0")

	resp, err := d.Handle(context.Background(), Request{Name: "calculate"})

	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.True(t, strings.HasPrefix(resp.Text(), "Error: "))
}

func TestHandle_MistypedArguments(t *testing.T) {
	d := newDispatcher(t, "http://127.0.0.1:0")

	resp, err := d.Handle(context.Background(), Request{
		Name:      "calculate",
		Arguments: map[string]any{"expression": 42},
	})

	require.NoError(t, err)
	assert.True(t, resp.IsError)
	assert.True(t, strings.HasPrefix(resp.Text(), "Error: invalid arguments"), resp.Text())
}

func TestTools_RegistrationOrder(t *testing.T) {
	d := newDispatcher(t, "http://127.0.0.1:0")

	tools := d.Tools()
	require.Len(t, tools, 3)
	assert.Equal(t, "calculate", tools[0].Name)
	assert.Equal(t, "get_weather", tools[1].Name)
	assert.Equal(t, "get_exchange_rates", tools[2].Name)
}

func TestNew_NilCatalog(t *testing.T) {
	d := New(nil)

	assert.Empty(t, d.Tools())
	_, err := d.Handle(context.Background(), Request{Name: "calculate"})
	assert.ErrorIs(t, err, ErrUnknownTool)
}

type valuer interface{ Value() int64 }

func TestHandle_WithObserver(t *testing.T) {
	var logs bytes.Buffer
	observer := slogobs.New(
		slogobs.WithFormat(slogobs.FormatJSON),
		slogobs.WithLevel(slog.LevelDebug),
		slogobs.WithOutput(&logs),
	)
	d := New(tool.NewCatalog(calculator.NewCalculatorTool(), newPanickingTool()), WithObserver(observer))
	ctx := context.Background()

	_, err := d.Handle(ctx, Request{Name: "calculate", Arguments: map[string]any{"expression": "1+1"}})
	require.NoError(t, err)
	_, err = d.Handle(ctx, Request{Name: "explode"})
	require.NoError(t, err)
	_, err = d.Handle(ctx, Request{Name: "missing"})
	require.Error(t, err)

	calls, ok := observer.Counter(observability.MetricToolCalls).(valuer)
	require.True(t, ok)
	assert.Equal(t, int64(2), calls.Value())

	errorsCounter := observer.Counter(observability.MetricToolErrors).(valuer)
	assert.Equal(t, int64(1), errorsCounter.Value())

	unknown := observer.Counter(observability.MetricUnknownTool).(valuer)
	assert.Equal(t, int64(1), unknown.Value())

	output := logs.String()
	assert.Contains(t, output, "tool call completed")
	assert.Contains(t, output, "tool call failed")
	assert.Contains(t, output, "unknown tool requested")
	assert.Contains(t, output, observability.AttrToolCallID)
}
