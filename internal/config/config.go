package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/leofalp/weathercalc/internal/httpx"
	"github.com/leofalp/weathercalc/providers/tool/exchange"
	"github.com/leofalp/weathercalc/providers/tool/weather"
)

// Environment variable names.
const (
	EnvWeatherURL  = "WEATHERCALC_WEATHER_URL"
	EnvExchangeURL = "WEATHERCALC_EXCHANGE_URL"
	EnvHTTPTimeout = "WEATHERCALC_HTTP_TIMEOUT"
	EnvTransport   = "WEATHERCALC_TRANSPORT"
	EnvHTTPAddr    = "WEATHERCALC_HTTP_ADDR"
)

// DefaultEnvFile is read by [Load] when no file is named. It may be absent.
const DefaultEnvFile = ".env"

// DefaultHTTPAddr is the streamable HTTP listen address.
const DefaultHTTPAddr = ":8080"

// Transport selects how the MCP server is exposed.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

// ParseTransport validates a transport name. Matching is case-insensitive.
func ParseTransport(s string) (Transport, error) {
	switch t := Transport(strings.ToLower(strings.TrimSpace(s))); t {
	case TransportStdio, TransportHTTP:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transport %q (want %q or %q)", s, TransportStdio, TransportHTTP)
	}
}

// Config holds the runtime settings.
type Config struct {
	WeatherURL  string
	ExchangeURL string
	HTTPTimeout time.Duration
	Transport   Transport
	HTTPAddr    string
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		WeatherURL:  weather.DefaultBaseURL,
		ExchangeURL: exchange.DefaultBaseURL,
		HTTPTimeout: httpx.DefaultTimeout,
		Transport:   TransportStdio,
		HTTPAddr:    DefaultHTTPAddr,
	}
}

// Load reads the given .env files (or [DefaultEnvFile] if it exists) into
// the process environment and builds a Config from it.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", DefaultEnvFile, err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("loading env files: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, falling back to [Default] for unset
// or empty variables.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvWeatherURL); ok {
		cfg.WeatherURL = v
	}
	if v, ok := get(EnvExchangeURL); ok {
		cfg.ExchangeURL = v
	}
	if v, ok := get(EnvHTTPAddr); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := get(EnvHTTPTimeout); ok {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvHTTPTimeout, err)
		}
		cfg.HTTPTimeout = timeout
	}
	if v, ok := get(EnvTransport); ok {
		transport, err := ParseTransport(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvTransport, err)
		}
		cfg.Transport = transport
	}

	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	for name, raw := range map[string]string{EnvWeatherURL: c.WeatherURL, EnvExchangeURL: c.ExchangeURL} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s: %q is not an http(s) URL", name, raw)
		}
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%s: timeout must be positive, got %s", EnvHTTPTimeout, c.HTTPTimeout)
	}
	if _, err := ParseTransport(string(c.Transport)); err != nil {
		return err
	}
	if c.Transport == TransportHTTP && c.HTTPAddr == "" {
		return fmt.Errorf("%s: listen address is required for the http transport", EnvHTTPAddr)
	}
	return nil
}
