// Command weathercalc serves the calculate, get_weather and
// get_exchange_rates tools over the Model Context Protocol.
//
//	weathercalc serve                      # JSON-RPC over stdio
//	weathercalc serve --transport http     # streamable HTTP on :8080/mcp
//	weathercalc tools                      # print advertised tools
//	weathercalc call calculate '{expression: "2 + 2"}'
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
	if err != nil {
		if !errors.Is(err, errToolFailed) {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
