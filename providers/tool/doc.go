// Package tool defines the typed tool abstraction served by weathercalc.
//
// A [Tool] binds a name, a description and the JSON schema reflected from its
// input type to a Go function whose result renders itself as text. Tools are
// handled uniformly through the [GenericTool] interface, and a fixed set of
// them is published through a read-only [Catalog].
package tool
