package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"github.com/leofalp/weathercalc/providers/observability"
)

// GetJSON performs a GET request against url and decodes the JSON body into T.
// service names the upstream API in error messages ("Weather", "Exchange rate").
//
// Error Handling Strategy:
//   - transport failures (DNS, connect, timeout, cancellation) are wrapped
//   - non-2xx statuses return *StatusError, body excerpt in Detail
//   - bodies that are not valid JSON go through jsonrepair once; if decoding
//     still fails the result is *MalformedResponseError
//
// Span events are added when ctx carries a span.
func GetJSON[T any](ctx context.Context, client *http.Client, service, url string) (*T, error) {
	span := observability.SpanFromContext(ctx)

	if client == nil {
		client = NewClient(DefaultTimeout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating %s API request: %w", service, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", DefaultUserAgent)

	start := time.Now()
	res, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		if span != nil {
			span.AddEvent(observability.EventHTTPRequestError,
				observability.String(observability.AttrHTTPURL, url),
				observability.Error(err),
				observability.Duration(observability.AttrHTTPDuration, elapsed),
			)
		}
		return nil, fmt.Errorf("%s API request failed: %w", service, err)
	}
	defer CloseWithLog(res.Body)

	body, err := io.ReadAll(io.LimitReader(res.Body, MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading %s API response: %w", service, err)
	}
	if len(body) > MaxBodySize {
		return nil, &MalformedResponseError{Service: service, Reason: fmt.Sprintf("body exceeds %d bytes", MaxBodySize)}
	}

	if span != nil {
		span.AddEvent(observability.EventHTTPResponse,
			observability.String(observability.AttrHTTPMethod, http.MethodGet),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(body)),
			observability.Duration(observability.AttrHTTPDuration, elapsed),
		)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		statusErr := &StatusError{
			Service:    service,
			StatusCode: res.StatusCode,
			Detail:     summarizeBody(res.Header.Get("Content-Type"), body),
		}
		if span != nil {
			span.AddEvent(observability.EventHTTPResponseError,
				observability.String(observability.AttrHTTPURL, url),
				observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
				observability.String(observability.AttrHTTPResponseDetail, statusErr.Detail),
			)
		}
		return nil, statusErr
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(string(body))
		if repairErr != nil {
			return nil, &MalformedResponseError{Service: service, Reason: decodeReason(err), Err: err}
		}
		if err := json.Unmarshal([]byte(repaired), &out); err != nil {
			return nil, &MalformedResponseError{Service: service, Reason: decodeReason(err), Err: err}
		}
		if span != nil {
			span.AddEvent(observability.EventHTTPBodyRepaired,
				observability.String(observability.AttrHTTPURL, url))
		}
	}

	return &out, nil
}

// decodeReason describes a decoding failure without Go type names.
func decodeReason(err error) string {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		return "invalid JSON"
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return "unexpected type for " + typeErr.Field
	case errors.As(err, &typeErr):
		return "unexpected JSON " + typeErr.Value
	default:
		return "unexpected JSON shape"
	}
}
