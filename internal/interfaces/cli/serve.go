package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/MathioLucas/Molecular-expolrer/internal/config"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	httpapi "github.com/MathioLucas/Molecular-expolrer/internal/interfaces/http"
	"github.com/MathioLucas/Molecular-expolrer/internal/interfaces/http/handlers"
)

type serveOptions struct {
	host string
	port int
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cliCtx.Config.Server.Host = opts.host
			}
			if cmd.Flags().Changed("port") {
				cliCtx.Config.Server.Port = opts.port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cliCtx)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

// runServe serves until ctx is cancelled, then shuts down gracefully.
func runServe(ctx context.Context, cliCtx *CLIContext) error {
	cfg, logger := cliCtx.Config, cliCtx.Logger
	gin.SetMode(cfg.Server.Mode)

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()
	defer logger.Sync() //nolint:errcheck

	router := httpapi.NewRouter(httpapi.RouterConfig{
		MoleculeHandler:  handlers.NewMoleculeHandler(app.Service, logger.Named("handler")),
		HealthHandler:    handlers.NewHealthHandler(Version, app.Metrics, app.Checkers...),
		MaxBodySize:      cfg.Server.MaxBodySize,
		Logger:           logger,
		MetricsCollector: app.Collector,
		AppMetrics:       app.Metrics,
		MetricsPath:      cfg.Metrics.Path,
	})
	srv := httpapi.NewServer(cfg.Server, router, logger)

	if cliCtx.ConfigPath != "" {
		config.Watch(cliCtx.ConfigPath, func(next *config.Config) {
			if logging.SetLevel(logger, next.Log.Level) {
				logger.Info("Log level reloaded", logging.String("level", next.Log.Level))
			}
		}, func(err error) {
			logger.Warn("Ignoring invalid configuration change", logging.Err(err))
		})
	}

	logger.Info("Starting molx API server",
		logging.String("version", Version),
		logging.String("addr", cfg.Server.Addr()),
		logging.Int("max_concurrency", cfg.Chem.MaxConcurrency),
		logging.Duration("compute_timeout", cfg.Chem.ComputeTimeout),
		logging.Bool("redis", cfg.Redis.Enabled),
		logging.Bool("kafka", cfg.Kafka.Enabled),
		logging.Bool("minio", cfg.MinIO.Enabled))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	if err := srv.Stop(context.Background()); err != nil {
		return err
	}
	return <-errCh
}

//Personal.AI order the ending
