// Package weather provides the "get_weather" tool, backed by the wttr.in JSON
// API (format=j1). No API key is required.
//
// [Client.Fetch] returns a [Record] with the provider's values copied through
// verbatim; [Record.Text] renders the fixed multi-line report sent to
// clients. [NewWeatherTool] wraps a client as a tool.
package weather
