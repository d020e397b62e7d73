// Package config defines the configuration of the molecule service. No I/O
// or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/database/redis"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/messaging/kafka"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/prometheus"
	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/storage/minio"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ChemConfig bounds the structure computations.
type ChemConfig struct {
	// ComputeTimeout caps embedding plus optimization of one request.
	ComputeTimeout time.Duration `mapstructure:"compute_timeout"`
	// MaxConcurrency is the number of computations allowed at once.
	MaxConcurrency int `mapstructure:"max_concurrency"`
	// MaxAtoms is counted after hydrogen addition.
	MaxAtoms      int           `mapstructure:"max_atoms"`
	EmbedAttempts int           `mapstructure:"embed_attempts"`
	MaxIterations int           `mapstructure:"max_iterations"`
	CacheEnabled  bool          `mapstructure:"cache_enabled"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

// RedisConfig adds the cache switch and key prefix to the client settings.
type RedisConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	KeyPrefix         string `mapstructure:"key_prefix"`
	redis.RedisConfig `mapstructure:",squash"`
}

// KafkaConfig adds topic provisioning to the producer settings.
type KafkaConfig struct {
	EnsureTopics         bool   `mapstructure:"ensure_topics"`
	ReplicationFactor    int    `mapstructure:"replication_factor"`
	GroupID              string `mapstructure:"group_id"`
	kafka.ProducerConfig `mapstructure:",squash"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled                    bool   `mapstructure:"enabled"`
	Path                       string `mapstructure:"path"`
	prometheus.CollectorConfig `mapstructure:",squash"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure of the service.
type Config struct {
	Server  ServerConfig      `mapstructure:"server"`
	Chem    ChemConfig        `mapstructure:"chem"`
	Redis   RedisConfig       `mapstructure:"redis"`
	MinIO   minio.MinIOConfig `mapstructure:"minio"`
	Kafka   KafkaConfig       `mapstructure:"kafka"`
	Log     logging.LogConfig `mapstructure:"log"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config and
// returns the first error encountered.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}
	if c.Server.MaxBodySize < 1 {
		return fmt.Errorf("config: server.max_body_size must be ≥ 1, got %d", c.Server.MaxBodySize)
	}

	if c.Chem.ComputeTimeout <= 0 {
		return fmt.Errorf("config: chem.compute_timeout must be positive, got %s", c.Chem.ComputeTimeout)
	}
	if c.Chem.MaxConcurrency < 1 {
		return fmt.Errorf("config: chem.max_concurrency must be ≥ 1, got %d", c.Chem.MaxConcurrency)
	}
	if c.Chem.MaxAtoms < 1 {
		return fmt.Errorf("config: chem.max_atoms must be ≥ 1, got %d", c.Chem.MaxAtoms)
	}
	if c.Chem.EmbedAttempts < 1 {
		return fmt.Errorf("config: chem.embed_attempts must be ≥ 1, got %d", c.Chem.EmbedAttempts)
	}

	if c.Redis.Enabled {
		switch c.Redis.Mode {
		case "standalone":
			if c.Redis.Addr == "" {
				return fmt.Errorf("config: redis.addr is required")
			}
		case "cluster":
			if len(c.Redis.ClusterAddrs) == 0 {
				return fmt.Errorf("config: redis.cluster_addrs must contain at least one address")
			}
		default:
			return fmt.Errorf("config: redis.mode %q is invalid; expected standalone|cluster", c.Redis.Mode)
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
		}
	}

	if c.Kafka.Enabled {
		if err := kafka.ValidateProducerConfig(c.Kafka.ProducerConfig); err != nil {
			return fmt.Errorf("config: kafka: %w", err)
		}
	}

	if c.MinIO.Enabled {
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("config: minio.endpoint is required")
		}
		if c.MinIO.AccessKeyID == "" || c.MinIO.SecretAccessKey == "" {
			return fmt.Errorf("config: minio credentials are required")
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
