package weather

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/leofalp/weathercalc/internal/httpx"
	"github.com/leofalp/weathercalc/providers/tool"
)

const (
	// ToolName is the name the weather tool is advertised under.
	ToolName = "get_weather"

	// DefaultBaseURL is the public wttr.in endpoint.
	DefaultBaseURL = "https://wttr.in"

	service = "Weather"
)

// ErrCityRequired is returned when the city argument is blank.
var ErrCityRequired = errors.New("city is required")

// Client fetches current conditions from a wttr.in compatible API.
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

// Fetch retrieves current conditions for city. Non-2xx statuses return
// *httpx.StatusError; bodies missing any of the expected arrays return
// *httpx.MalformedResponseError.
func (c *Client) Fetch(ctx context.Context, city string) (Record, error) {
	if strings.TrimSpace(city) == "" {
		return Record{}, ErrCityRequired
	}

	endpoint := c.baseURL + "/" + url.PathEscape(city) + "?format=j1"
	res, err := httpx.GetJSON[apiResponse](ctx, c.httpClient, service, endpoint)
	if err != nil {
		return Record{}, err
	}
	return res.record()
}

// Lookup is the tool function behind "get_weather".
func (c *Client) Lookup(ctx context.Context, input Input) (Record, error) {
	return c.Fetch(ctx, input.City)
}

// NewWeatherTool returns the "get_weather" tool backed by client. A nil
// client uses [NewClient] defaults.
func NewWeatherTool(client *Client) *tool.Tool[Input, Record] {
	if client == nil {
		client = NewClient()
	}
	return tool.NewTool[Input, Record](
		ToolName,
		client.Lookup,
		tool.WithDescription("Get current weather information for a city"),
		tool.WithErrorPrefix("Weather Error"),
		tool.WithOpenWorld(),
	)
}

// Input holds the city to look up.
type Input struct {
	City string `json:"city" jsonschema:"description=City name (e.g., \"Istanbul\", \"London\", \"New York\"),required"`
}

// UnmarshalJSON also accepts a numeric city, keeping its literal text.
func (in *Input) UnmarshalJSON(data []byte) error {
	var raw struct {
		City value `json:"city"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	in.City = string(raw.City)
	return nil
}

// apiResponse mirrors the parts of the format=j1 payload that are used.
type apiResponse struct {
	CurrentCondition []struct {
		TempC         value   `json:"temp_C"`
		TempF         value   `json:"temp_F"`
		WeatherDesc   []named `json:"weatherDesc"`
		Humidity      value   `json:"humidity"`
		WindspeedKmph value   `json:"windspeedKmph"`
		FeelsLikeC    value   `json:"FeelsLikeC"`
		FeelsLikeF    value   `json:"FeelsLikeF"`
	} `json:"current_condition"`
	NearestArea []struct {
		AreaName []named `json:"areaName"`
		Country  []named `json:"country"`
	} `json:"nearest_area"`
}

type named struct {
	Value value `json:"value"`
}

// value accepts a JSON string or number and keeps its literal text.
type value string

func (v *value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = value(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*v = value(n.String())
	return nil
}

func (r *apiResponse) record() (Record, error) {
	if len(r.CurrentCondition) == 0 {
		return Record{}, httpx.Malformed(service, "missing current_condition")
	}
	if len(r.NearestArea) == 0 {
		return Record{}, httpx.Malformed(service, "missing nearest_area")
	}
	current := r.CurrentCondition[0]
	area := r.NearestArea[0]

	switch {
	case len(current.WeatherDesc) == 0:
		return Record{}, httpx.Malformed(service, "missing weatherDesc")
	case len(area.AreaName) == 0:
		return Record{}, httpx.Malformed(service, "missing areaName")
	case len(area.Country) == 0:
		return Record{}, httpx.Malformed(service, "missing country")
	}

	return Record{
		Location:    string(area.AreaName[0].Value) + ", " + string(area.Country[0].Value),
		TempC:       string(current.TempC),
		TempF:       string(current.TempF),
		Description: string(current.WeatherDesc[0].Value),
		Humidity:    string(current.Humidity),
		WindKmph:    string(current.WindspeedKmph),
		FeelsLikeC:  string(current.FeelsLikeC),
		FeelsLikeF:  string(current.FeelsLikeF),
	}, nil
}
