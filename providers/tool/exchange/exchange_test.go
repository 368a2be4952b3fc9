package exchange

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leofalp/weathercalc/internal/httpx"
)

func newTestServer(t *testing.T, status int, body string, gotPath *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotPath != nil {
			*gotPath = r.URL.EscapedPath()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetch_FiltersToAllowList(t *testing.T) {
	var path string
	server := newTestServer(t, http.StatusOK, `{"rates":{"EUR":0.9123,"XYZ":1.0},"date":"2024-01-01"}`, &path)

	snapshot, err := NewClient(WithBaseURL(server.URL)).Fetch(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/v4/latest/USD" {
		t.Errorf("request path = %q", path)
	}

	want := "💱 Exchange Rates (Base: USD)\n\nEUR: 0.9123\n\n📅 Last Updated: 2024-01-01"
	if got := snapshot.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if strings.Contains(snapshot.Text(), "XYZ") {
		t.Error("currencies outside the allow-list must be omitted")
	}
}

func TestFetch_AllowListOrder(t *testing.T) {
	body := `{"base":"EUR","date":"2024-05-06","rates":{
		"CHF":0.97,"AUD":1.63,"CAD":1.47,"TRY":34.71,"JPY":166.2,"GBP":0.86,"USD":1.08,"EUR":1
	}}`
	var path string
	server := newTestServer(t, http.StatusOK, body, &path)

	snapshot, err := NewClient(WithBaseURL(server.URL)).Fetch(context.Background(), "EUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/v4/latest/EUR" {
		t.Errorf("request path = %q", path)
	}

	want := "💱 Exchange Rates (Base: EUR)\n\n" +
		"EUR: 1.0000\n" +
		"GBP: 0.8600\n" +
		"JPY: 166.2000\n" +
		"TRY: 34.7100\n" +
		"CAD: 1.4700\n" +
		"AUD: 1.6300\n" +
		"CHF: 0.9700\n" +
		"\n📅 Last Updated: 2024-05-06"
	if got := snapshot.Text(); got != want {
		t.Errorf("Text() =\n%s\nwant\n%s", got, want)
	}
}

func TestFetch_ZeroRateOmitted(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"rates":{"EUR":0,"GBP":0.8},"date":"2024-01-01"}`, nil)

	snapshot, err := NewClient(WithBaseURL(server.URL)).Fetch(context.Background(), "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Rates) != 1 || snapshot.Rates[0].Code != "GBP" {
		t.Errorf("Rates = %+v", snapshot.Rates)
	}
}

func TestFetch_EmptyRates(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"rates":{},"date":"2024-01-01"}`, nil)

	snapshot, err := NewClient(WithBaseURL(server.URL)).Fetch(context.Background(), "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "💱 Exchange Rates (Base: USD)\n\n\n📅 Last Updated: 2024-01-01"
	if got := snapshot.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestFetch_StatusError(t *testing.T) {
	server := newTestServer(t, http.StatusNotFound, `{"result":"error","error-type":"unsupported-code"}`, nil)

	_, err := NewClient(WithBaseURL(server.URL)).Fetch(context.Background(), "ABC")

	var statusErr *httpx.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err = %v, want *httpx.StatusError", err)
	}
	if err.Error() != "Exchange rate API error: 404" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestFetch_MissingRates(t *testing.T) {
	for _, body := range []string{`{"date":"2024-01-01"}`, `{"rates":null}`, `not json at all`} {
		t.Run(body, func(t *testing.T) {
			server := newTestServer(t, http.StatusOK, body, nil)

			_, err := NewClient(WithBaseURL(server.URL)).Fetch(context.Background(), "USD")

			var malformed *httpx.MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("err = %v, want *httpx.MalformedResponseError", err)
			}
		})
	}
}

func TestSnapshot_MissingDate(t *testing.T) {
	snapshot := Snapshot{Base: "USD", Rates: []Rate{{Code: "EUR", Value: 0.5}}}
	if !strings.HasSuffix(snapshot.Text(), "📅 Last Updated: unknown") {
		t.Errorf("Text() = %q", snapshot.Text())
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.9123, "0.9123"},
		{1, "1.0000"},
		{151.5, "151.5000"},
		{34.712345, "34.7123"},
		{0.00004, "0.0000"},
		{0.00005, "0.0001"},
		{1.03125, "1.0313"},
		{1234567.891, "1234567.8910"},
		{-1.5, "-1.5000"},
		{-1.03125, "-1.0313"},
		{-0.00004, "-0.0000"},
	}

	for _, tt := range tests {
		if got := formatRate(tt.in); got != tt.want {
			t.Errorf("formatRate(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewExchangeRatesTool(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"rates":{"GBP":0.79},"date":"2024-02-02"}`, nil)
	exchangeTool := NewExchangeRatesTool(NewClient(WithBaseURL(server.URL)))

	info := exchangeTool.ToolInfo()
	if info.Name != "get_exchange_rates" {
		t.Errorf("Name = %q", info.Name)
	}
	if exchangeTool.ErrorPrefix() != "Exchange Rate Error" {
		t.Errorf("ErrorPrefix() = %q", exchangeTool.ErrorPrefix())
	}
	base := info.Parameters.Properties["base"]
	if base == nil || base.Default != "USD" {
		t.Fatalf("base schema = %+v", base)
	}
	if len(info.Parameters.Required) != 0 {
		t.Errorf("base must be optional, Required = %v", info.Parameters.Required)
	}

	text, err := exchangeTool.Call(context.Background(), `{}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "💱 Exchange Rates (Base: USD)\n\nGBP: 0.7900\n\n📅 Last Updated: 2024-02-02" {
		t.Errorf("Call() = %q", text)
	}
}
