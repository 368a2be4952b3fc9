package main

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/leofalp/weathercalc/core/dispatch"
	"github.com/leofalp/weathercalc/core/server"
	"github.com/leofalp/weathercalc/internal/config"
	"github.com/leofalp/weathercalc/internal/httpx"
	"github.com/leofalp/weathercalc/providers/observability/slogobs"
	"github.com/leofalp/weathercalc/providers/tool"
	"github.com/leofalp/weathercalc/providers/tool/calculator"
	"github.com/leofalp/weathercalc/providers/tool/exchange"
	"github.com/leofalp/weathercalc/providers/tool/weather"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	envFiles []string
	noColor  bool

	cfg        config.Config
	observer   *slogobs.Observer
	dispatcher *dispatch.Dispatcher
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:           "weathercalc",
		Short:         "MCP server with calculator, weather and exchange rate tools",
		Version:       server.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "Load settings from these .env files (default: ./.env if present)")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable coloured output")

	rootCmd.AddCommand(serveCmd(a), toolsCmd(a), callCmd(a))
	return rootCmd
}

func (a *app) setup() error {
	if a.noColor {
		color.NoColor = true
	}

	cfg, err := config.Load(a.envFiles...)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.observer = slogobs.New(slogobs.WithOutput(a.stderr))
	a.dispatcher = newDispatcher(cfg, a.observer)
	return nil
}

// newDispatcher wires the three tools against the configured endpoints.
func newDispatcher(cfg config.Config, observer *slogobs.Observer) *dispatch.Dispatcher {
	httpClient := httpx.NewClient(cfg.HTTPTimeout)

	catalog := tool.NewCatalog(
		calculator.NewCalculatorTool(),
		weather.NewWeatherTool(weather.NewClient(
			weather.WithBaseURL(cfg.WeatherURL),
			weather.WithHTTPClient(httpClient),
		)),
		exchange.NewExchangeRatesTool(exchange.NewClient(
			exchange.WithBaseURL(cfg.ExchangeURL),
			exchange.WithHTTPClient(httpClient),
		)),
	)
	return dispatch.New(catalog, dispatch.WithObserver(observer))
}
