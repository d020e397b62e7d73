package cli

import (
	"context"

	appmol "github.com/MathioLucas/Molecular-expolrer/internal/application/molecule"
	"github.com/MathioLucas/Molecular-expolrer/internal/config"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/database/redis"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/messaging/kafka"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/prometheus"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/storage/minio"
	"github.com/MathioLucas/Molecular-expolrer/internal/interfaces/http/handlers"
	"github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

// App is the wired server: the molecule service plus every enabled backend.
type App struct {
	Config    *config.Config
	Logger    logging.Logger
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.AppMetrics
	Service   appmol.Service
	Checkers  []handlers.HealthChecker

	closers []func() error
}

// NewApp connects the enabled backends of cfg. A backend that is enabled but
// unreachable fails startup; at runtime the service degrades around it.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (_ *App, err error) {
	app := &App{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	if cfg.Metrics.Enabled {
		app.Collector, err = prometheus.NewMetricsCollector(cfg.Metrics.CollectorConfig, logger.Named("metrics"))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create metrics collector")
		}
		app.Metrics = prometheus.NewAppMetrics(app.Collector)
	} else {
		app.Metrics = prometheus.NewNoopAppMetrics()
	}

	opts := []appmol.Option{appmol.WithMetrics(app.Metrics)}

	if cfg.Redis.Enabled {
		rc, err := redis.NewClient(&cfg.Redis.RedisConfig, logger.Named("redis"))
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, rc.Close)
		app.Checkers = append(app.Checkers, handlers.CheckerFunc{ComponentName: "redis", Fn: rc.Ping})

		cache := redis.NewRedisCache(rc, logger.Named("cache"),
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Chem.CacheTTL),
		)
		opts = append(opts, appmol.WithCache(cache))
	}

	if cfg.Kafka.Enabled {
		if cfg.Kafka.EnsureTopics {
			if err := ensureTopics(ctx, cfg.Kafka, logger); err != nil {
				return nil, err
			}
		}
		producer, err := kafka.NewProducer(cfg.Kafka.ProducerConfig, logger.Named("kafka"))
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, producer.Close)
		opts = append(opts, appmol.WithEventPublisher(producer))
	}

	if cfg.MinIO.Enabled {
		mc, err := minio.NewMinIOClient(&cfg.MinIO, logger.Named("minio"))
		if err != nil {
			return nil, err
		}
		if err := mc.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		mc.SetupLifecycleRules(ctx)
		app.Checkers = append(app.Checkers, handlers.CheckerFunc{ComponentName: "minio", Fn: mc.HealthCheck})
		opts = append(opts, appmol.WithArtifactStore(minio.NewArtifactStore(mc, logger.Named("artifacts"))))
	}

	app.Service = appmol.NewService(cfg.Chem, logger, opts...)
	return app, nil
}

func ensureTopics(ctx context.Context, cfg config.KafkaConfig, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(cfg.Brokers, logger.Named("kafka"))
	if err != nil {
		return err
	}
	defer tm.Close()
	return tm.EnsureTopics(ctx, kafka.DefaultTopics(cfg.ReplicationFactor))
}

// Close releases the backends in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("Failed to close backend", logging.Err(err))
		}
	}
	a.closers = nil
}

//Personal.AI order the ending
