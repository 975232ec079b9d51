package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/vango-dev/sprout/internal/errors"
	"github.com/vango-dev/sprout/pkg/metrics"
	"github.com/vango-dev/sprout/pkg/server"
	"github.com/vango-dev/sprout/pkg/tracing"
)

func serveCmd(g *globalFlags) *cobra.Command {
	var (
		port        int
		host        string
		maxSessions int
		withMetrics bool
		withTracing bool
		keyed       bool
	)

	cmd := &cobra.Command{
		Use:   "serve [demo]",
		Short: "Serve a demo in server-driven mode",
		Long: `Serve a demo in server-driven mode.

Every browser tab opens a WebSocket session that runs its own instance of
the app on the server. Events travel to the server and DOM mutations
travel back to the thin client.

Routes:
  /                     the rendered page
  /_sprout/client.js    the thin client
  /_sprout/ws           the session socket
  /metrics              Prometheus metrics (with --metrics)

Examples:
  sprout serve
  sprout serve counter --port=3000
  SPROUT_PORT=9000 sprout serve todo --metrics`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if port > 0 {
				cfg.Dev.Port = port
			}
			if host != "" {
				cfg.Dev.Host = host
			}
			if cmd.Flags().Changed("max-sessions") {
				cfg.Server.MaxSessions = maxSessions
			}
			if withMetrics {
				cfg.Metrics.Enabled = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			name := "showcase"
			if len(args) == 1 {
				name = args[0]
			}
			d, err := lookupDemo(name)
			if err != nil {
				return err
			}

			logger := g.logger(cmd.ErrOrStderr())
			sc := serverConfig(cfg)
			sc.Logger = logger.With("component", "server")
			if cfg.Metrics.Enabled {
				reg := prometheus.NewRegistry()
				sc.Metrics = metrics.New(
					metrics.WithNamespace(cfg.Metrics.Namespace),
					metrics.WithRegistry(reg),
					metrics.WithConstLabels(prometheus.Labels{"demo": d.name}),
				)
				sc.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
			}
			if withTracing {
				sc.Tracer = tracing.New(tracing.WithTracerName("sprout/" + d.name))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := cmd.OutOrStdout()
			printBanner(w)
			fmt.Fprintln(w, "  serve", d.name)
			fmt.Fprintln(w)
			success(w, "Listening on %s", cfg.DevURL())
			if cfg.Metrics.Enabled {
				info(w, "Metrics at %s%s", cfg.DevURL(), server.MetricsPath)
			}

			err = d.serve(ctx, sc, runOptions{
				keyed:  keyed || cfg.Render.Keyed,
				logger: logger,
			})
			if err != nil {
				if ctx.Err() != nil {
					return errors.New("E082").Wrap(err)
				}
				return errors.New("E080").Wrap(err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from sprout.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from sprout.json)")
	cmd.Flags().IntVar(&maxSessions, "max-sessions", 0, "Maximum concurrent sessions (0 = no limit)")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "Serve Prometheus metrics at /metrics")
	cmd.Flags().BoolVar(&withTracing, "trace", false, "Record render cycles with OpenTelemetry")
	cmd.Flags().BoolVar(&keyed, "keyed", false, "Use keyed reconciliation")

	return cmd
}
