package httpx

import (
	"net"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a whole upstream request, body included.
	DefaultTimeout = 5 * time.Second
	// DefaultUserAgent is sent with every upstream request.
	DefaultUserAgent = "weathercalc/0.2.0"
	// MaxBodySize caps how much of a response body is read (2MB).
	MaxBodySize = 2 * 1024 * 1024

	dialTimeout           = 3 * time.Second
	tlsHandshakeTimeout   = 3 * time.Second
	responseHeaderTimeout = 5 * time.Second
	idleConnTimeout       = 90 * time.Second
)

// NewClient returns an *http.Client whose overall timeout is timeout
// (DefaultTimeout when zero or negative) and whose dial, TLS and header
// phases are bounded individually.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   min(tlsHandshakeTimeout, timeout),
			ResponseHeaderTimeout: min(responseHeaderTimeout, timeout),
			IdleConnTimeout:       idleConnTimeout,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   4,
			ForceAttemptHTTP2:     true,
		},
	}
}
