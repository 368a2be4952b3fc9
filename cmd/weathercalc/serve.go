package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leofalp/weathercalc/core/server"
	"github.com/leofalp/weathercalc/internal/config"
)

func serveCmd(a *app) *cobra.Command {
	var transport, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over MCP (stdio or streamable HTTP)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("transport") {
				t, err := config.ParseTransport(transport)
				if err != nil {
					return err
				}
				cfg.Transport = t
			}
			if cmd.Flags().Changed("addr") {
				cfg.HTTPAddr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// stdout carries the protocol, so every log line goes to stderr.
			logger := a.observer.Logger()
			slog.SetDefault(logger)

			srv, err := server.New(a.dispatcher,
				server.WithObserver(a.observer),
				server.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			if cfg.Transport == config.TransportHTTP {
				return srv.ListenAndServe(cmd.Context(), cfg.HTTPAddr)
			}
			return srv.ServeStdio(cmd.Context(), a.stdin, a.stdout)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(config.TransportStdio), "Transport: stdio or http")
	cmd.Flags().StringVar(&addr, "addr", config.DefaultHTTPAddr, "Listen address for the http transport")
	return cmd
}
