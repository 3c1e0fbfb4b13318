package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/syringe/internal/config"
	"github.com/vango-dev/syringe/pkg/fixture"
	"github.com/vango-dev/syringe/pkg/middleware"
	"github.com/vango-dev/syringe/pkg/playground"
	"github.com/vango-dev/syringe/pkg/syringe"
)

func serveCmd(global *globalOptions) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the playground server",
		Long: `Start the playground HTTP server.

Routes:
  POST /inject          run the fixture in the request body
  GET  /fixtures/{path} run a stored fixture (s3/{bucket}/{key} for S3)
  GET  /live            WebSocket; results are broadcast to all clients
  GET  /metrics         Prometheus metrics
  GET  /health          liveness

Examples:
  syringe serve
  syringe serve --port=8080 --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Playground.Port = port
			}
			if host != "" {
				cfg.Playground.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from syringe.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from syringe.json)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg)

	serverConfig := playground.Config{
		Loader: &fixture.Loader{
			Files: fixture.FileSource{Dir: cfg.FixturesPath()},
			S3: fixture.NewS3Source(fixture.S3Config{
				Region:    cfg.Fixtures.S3.Region,
				Endpoint:  cfg.Fixtures.S3.Endpoint,
				PathStyle: cfg.Fixtures.S3.PathStyle,
			}),
		},
		Live:           cfg.Playground.Live,
		AllowedOrigins: cfg.Playground.AllowedOrigins,
		Logger:         logger,
	}

	var observer syringe.Observer
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		observer = middleware.NewMetrics(
			middleware.WithRegistry(registry),
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithSubsystem(cfg.Metrics.Subsystem),
		)
		serverConfig.Gatherer = registry
		serverConfig.MetricsPath = cfg.Metrics.Path
	}

	serverConfig.Pipeline = &playground.Pipeline{
		Syringe: syringe.New(syringe.Options{
			Logger:   logger,
			Observer: observer,
			Parallel: cfg.Parallel,
		}),
		Tracing: newTracing(cfg),
		Pretty:  cfg.Render.Pretty,
		Indent:  cfg.Render.Indent,
		Logger:  logger,
	}

	success("Playground listening on http://%s", cfg.PlaygroundAddress())
	if cfg.Playground.Live {
		info("Live endpoint: ws://%s/live", cfg.PlaygroundAddress())
	}
	return playground.New(serverConfig).ListenAndServe(ctx, cfg.PlaygroundAddress())
}
