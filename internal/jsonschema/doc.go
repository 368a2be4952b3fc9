// Package jsonschema derives the JSON Schema advertised for each tool's
// arguments from the Go input struct, using `json` and `jsonschema` struct
// tags. See [Generate] for the supported tag keys.
package jsonschema
