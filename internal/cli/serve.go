package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonscope/internal/api"
	"github.com/rshade/carbonscope/internal/config"
	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/engine"
	"github.com/rshade/carbonscope/internal/logging"
	"github.com/rshade/carbonscope/pkg/version"
)

// NewServeCmd creates the serve command, which runs the HTTP API until
// interrupted.
func NewServeCmd(ver string) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the estimation HTTP API",
		Long: `Serves the HTTP API:

  POST /v1/estimate          estimate one input record
  POST /v1/estimate:batch    estimate a list of scenarios
  POST /v1/report            render the text or PDF report
  GET  /v1/regions           grid factors and default prices
  GET  /v1/ops/health        liveness
  GET  /metrics              Prometheus metrics

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  carbonscope serve
  carbonscope serve --listen 127.0.0.1:9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, ver, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (default from server.listen)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, ver, listen string) error {
	cfg := config.GetGlobalConfig()
	if err := checkFactorSet(cfg); err != nil {
		return err
	}
	if !cmd.Flags().Changed("listen") {
		listen = cfg.Server.Listen
	}
	region, err := emissions.ParseRegion(cfg.Calculator.DefaultRegion)
	if err != nil {
		return err
	}

	log := logging.ComponentLogger(baseLogger, "api")
	router, err := api.NewRouter(api.RouterConfig{
		Version:            ver,
		Commit:             version.GetCommit(),
		Logger:             log,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		MaxBodyBytes:       cfg.Server.MaxBodyBytes,
		Precision:          cfg.Output.Precision,
		Equivalents:        cfg.Output.Equivalents,
		DefaultRegion:      region,
		Engine: engine.Options{
			BatchSize:   cfg.Batch.Size,
			Concurrency: cfg.Batch.Concurrency,
		},
	})
	if err != nil {
		return err
	}

	srv := api.NewServer(api.ServerConfig{
		Listen:          listen,
		ReadTimeout:     cfg.Server.ReadTimeoutDuration(),
		ShutdownTimeout: cfg.Server.ShutdownTimeoutDuration(),
		Logger:          log,
	}, router)

	cmd.PrintErrf("Serving carbonscope API on %s (Ctrl+C to stop)\n", listen)
	return srv.Run(ctx)
}
