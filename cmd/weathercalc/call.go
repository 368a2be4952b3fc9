package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/leofalp/weathercalc/core/dispatch"
	"github.com/leofalp/weathercalc/core/parse"
)

// errToolFailed signals an error-flagged response that was already printed.
var errToolFailed = errors.New("tool call failed")

func callCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [arguments]",
		Short: "Call a tool once and print its result",
		Long: `Call a tool once and print its result.

Arguments are a JSON object; relaxed syntax such as single quotes, bare keys
and trailing commas is accepted. A failed call exits with status 1.`,
		Example: `  weathercalc call calculate '{"expression": "(3+4)*2"}'
  weathercalc call get_weather "{city: 'London'}"
  weathercalc call get_exchange_rates`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 2 {
				raw = args[1]
			}
			arguments, err := parse.ParseStringAs[map[string]any](raw)
			if err != nil {
				return fmt.Errorf("invalid arguments: %w", err)
			}

			resp, err := a.dispatcher.Handle(cmd.Context(), dispatch.Request{
				Name:      args[0],
				Arguments: arguments,
			})
			if err != nil {
				return err
			}

			if resp.IsError {
				color.New(color.FgRed).Fprintln(a.stderr, resp.Text())
				return errToolFailed
			}
			fmt.Fprintln(a.stdout, resp.Text())
			return nil
		},
	}
}
