package config

import (
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8000
	DefaultServerMode      = "release"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultMaxBodySize     = 1 << 20
	DefaultShutdownTimeout = 15 * time.Second

	DefaultComputeTimeout = 20 * time.Second
	DefaultMaxAtoms       = 400
	DefaultEmbedAttempts  = 10
	DefaultMaxIterations  = 200
	DefaultCacheTTL       = time.Hour

	DefaultRedisMode      = "standalone"
	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "molx:"

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "molx-events"

	DefaultMinIOEndpoint = "localhost:9000"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "molx"
)

// DefaultMaxConcurrency is one computation per CPU.
func DefaultMaxConcurrency() int { return runtime.GOMAXPROCS(0) }

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields that have already been set (non-zero values) are left unchanged so
// that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// ── Chem ──────────────────────────────────────────────────────────────────
	if cfg.Chem.ComputeTimeout == 0 {
		cfg.Chem.ComputeTimeout = DefaultComputeTimeout
	}
	if cfg.Chem.MaxConcurrency == 0 {
		cfg.Chem.MaxConcurrency = DefaultMaxConcurrency()
	}
	if cfg.Chem.MaxAtoms == 0 {
		cfg.Chem.MaxAtoms = DefaultMaxAtoms
	}
	if cfg.Chem.EmbedAttempts == 0 {
		cfg.Chem.EmbedAttempts = DefaultEmbedAttempts
	}
	if cfg.Chem.MaxIterations == 0 {
		cfg.Chem.MaxIterations = DefaultMaxIterations
	}
	if cfg.Chem.CacheTTL == 0 {
		cfg.Chem.CacheTTL = DefaultCacheTTL
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = DefaultRedisMode
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.ReplicationFactor == 0 {
		cfg.Kafka.ReplicationFactor = 1
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// setViperDefaults registers every key so that MOLX_* variables are seen by
// Unmarshal even when no config file mentions the key.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.mode", DefaultServerMode)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.max_body_size", DefaultMaxBodySize)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)

	v.SetDefault("chem.compute_timeout", DefaultComputeTimeout)
	v.SetDefault("chem.max_concurrency", 0)
	v.SetDefault("chem.max_atoms", DefaultMaxAtoms)
	v.SetDefault("chem.embed_attempts", DefaultEmbedAttempts)
	v.SetDefault("chem.max_iterations", DefaultMaxIterations)
	v.SetDefault("chem.cache_enabled", true)
	v.SetDefault("chem.cache_ttl", DefaultCacheTTL)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.mode", DefaultRedisMode)
	v.SetDefault("redis.addr", DefaultRedisAddr)
	v.SetDefault("redis.cluster_addrs", []string{})
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", DefaultRedisKeyPrefix)
	v.SetDefault("redis.tls_enabled", false)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{DefaultKafkaBroker})
	v.SetDefault("kafka.acks", "one")
	v.SetDefault("kafka.compression", "")
	v.SetDefault("kafka.ensure_topics", false)
	v.SetDefault("kafka.replication_factor", 1)
	v.SetDefault("kafka.group_id", DefaultKafkaGroupID)
	v.SetDefault("kafka.sasl_enabled", false)
	v.SetDefault("kafka.sasl_mechanism", "")
	v.SetDefault("kafka.sasl_username", "")
	v.SetDefault("kafka.sasl_password", "")
	v.SetDefault("kafka.tls_enabled", false)
	v.SetDefault("kafka.tls_cert_path", "")

	v.SetDefault("minio.enabled", false)
	v.SetDefault("minio.endpoint", DefaultMinIOEndpoint)
	v.SetDefault("minio.access_key_id", "")
	v.SetDefault("minio.secret_access_key", "")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "")
	v.SetDefault("minio.presign_expiry", time.Duration(0))

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", DefaultMetricsPath)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.enable_process_metrics", true)
	v.SetDefault("metrics.enable_go_metrics", true)
}

//Personal.AI order the ending
