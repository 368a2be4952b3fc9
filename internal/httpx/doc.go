// Package httpx holds the HTTP plumbing shared by the API-backed tools: a
// client with bounded timeouts, a typed JSON GET helper and the error types
// that describe upstream failures.
//
// [GetJSON] is the main entry point. Non-2xx responses become a
// [*StatusError]; bodies that cannot be decoded, even after a lenient repair
// pass, become a [*MalformedResponseError].
package httpx
