// Package parse decodes tool arguments into typed Go values. Arguments that
// arrive from model-driven clients or from the command line are often not
// strict JSON (single quotes, trailing commas, bare keys), so decoding falls
// back to repairing the text with jsonrepair and to unwrapping schema-style
// {"type": ..., "value": ...} envelopes before giving up.
package parse
