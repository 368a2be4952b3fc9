package httpx

import "fmt"

// StatusError is returned when an upstream API answers with a non-2xx status.
// Its message carries only the service and status code; Detail keeps a short,
// readable excerpt of the body for logs.
type StatusError struct {
	Service    string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: %d", e.Service, e.StatusCode)
}

// MalformedResponseError is returned when an upstream body does not have the
// expected shape: undecodable JSON or missing required fields. The message
// carries only Reason; the decoder error stays available through Unwrap.
type MalformedResponseError struct {
	Service string
	Reason  string
	Err     error
}

// Malformed builds a MalformedResponseError for a missing or invalid field.
func Malformed(service, reason string) *MalformedResponseError {
	return &MalformedResponseError{Service: service, Reason: reason}
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s API response: %s", e.Service, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
