package exchange

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/leofalp/weathercalc/internal/httpx"
	"github.com/leofalp/weathercalc/providers/tool"
)

const (
	// ToolName is the name the exchange rate tool is advertised under.
	ToolName = "get_exchange_rates"

	// DefaultBaseURL is the public exchangerate-api.com endpoint.
	DefaultBaseURL = "https://api.exchangerate-api.com"

	// DefaultBase is used when no base currency is given.
	DefaultBase = "USD"

	service = "Exchange rate"
)

// PopularCurrencies lists the reported currency codes in output order.
var PopularCurrencies = []string{"EUR", "GBP", "JPY", "TRY", "CAD", "AUD", "CHF"}

// Client fetches the latest rates from an exchangerate-api.com compatible API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL overrides the provider endpoint, e.g. for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout builds the HTTP client with the given request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = httpx.NewClient(timeout)
	}
}

// NewClient returns a client for [DefaultBaseURL] with [httpx.DefaultTimeout].
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: httpx.NewClient(httpx.DefaultTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the latest rates for base, [DefaultBase] when empty.
// Currencies outside [PopularCurrencies], and those the provider omits or
// reports as zero, are left out. Non-2xx statuses return *httpx.StatusError;
// a body without a rates object returns *httpx.MalformedResponseError.
func (c *Client) Fetch(ctx context.Context, base string) (Snapshot, error) {
	if base == "" {
		base = DefaultBase
	}

	endpoint := c.baseURL + "/v4/latest/" + url.PathEscape(base)
	res, err := httpx.GetJSON[apiResponse](ctx, c.httpClient, service, endpoint)
	if err != nil {
		return Snapshot{}, err
	}
	if res.Rates == nil {
		return Snapshot{}, httpx.Malformed(service, "missing rates")
	}

	snapshot := Snapshot{Base: base, Date: res.Date}
	for _, code := range PopularCurrencies {
		if rate := res.Rates[code]; rate != 0 {
			snapshot.Rates = append(snapshot.Rates, Rate{Code: code, Value: rate})
		}
	}
	return snapshot, nil
}

// Lookup is the tool function behind "get_exchange_rates".
func (c *Client) Lookup(ctx context.Context, input Input) (Snapshot, error) {
	return c.Fetch(ctx, input.Base)
}

// NewExchangeRatesTool returns the "get_exchange_rates" tool backed by
// client. A nil client uses [NewClient] defaults.
func NewExchangeRatesTool(client *Client) *tool.Tool[Input, Snapshot] {
	if client == nil {
		client = NewClient()
	}
	return tool.NewTool[Input, Snapshot](
		ToolName,
		client.Lookup,
		tool.WithDescription("Get current USD exchange rates"),
		tool.WithErrorPrefix("Exchange Rate Error"),
		tool.WithOpenWorld(),
	)
}

// Input holds the optional base currency.
type Input struct {
	Base string `json:"base,omitempty" jsonschema:"description=Base currency (default: USD),default=USD"`
}

type apiResponse struct {
	Rates map[string]float64 `json:"rates"`
	Date  string             `json:"date"`
}
