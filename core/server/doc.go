// Package server exposes a dispatcher's tools over the Model Context Protocol
// using github.com/mark3labs/mcp-go.
//
// Two transports are provided: newline-delimited JSON-RPC over stdio
// ([Server.ServeStdio]) and streamable HTTP ([Server.ListenAndServe]). Both
// share the same MCP server, so listing and calling tools behave identically.
package server
