package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/internal/config"
)

// validConfig returns a Config that passes Validate with every optional
// backend disabled.
func validConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	t.Parallel()
	for _, p := range []int{-1, 65536, 100000} {
		p := p
		t.Run("", func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			cfg.Server.Port = p
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "server.port")
		})
	}
}

func TestConfig_Validate_Fields(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"server mode", func(c *config.Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"body size", func(c *config.Config) { c.Server.MaxBodySize = -1 }, "server.max_body_size"},
		{"timeout", func(c *config.Config) { c.Chem.ComputeTimeout = -time.Second }, "chem.compute_timeout"},
		{"concurrency", func(c *config.Config) { c.Chem.MaxConcurrency = -2 }, "chem.max_concurrency"},
		{"max atoms", func(c *config.Config) { c.Chem.MaxAtoms = -1 }, "chem.max_atoms"},
		{"attempts", func(c *config.Config) { c.Chem.EmbedAttempts = -1 }, "chem.embed_attempts"},
		{"log level", func(c *config.Config) { c.Log.Level = "trace" }, "log.level"},
		{"log format", func(c *config.Config) { c.Log.Format = "text" }, "log.format"},
		{"redis addr", func(c *config.Config) {
			c.Redis.Enabled = true
			c.Redis.Addr = ""
		}, "redis.addr"},
		{"redis cluster", func(c *config.Config) {
			c.Redis.Enabled = true
			c.Redis.Mode = "cluster"
		}, "redis.cluster_addrs"},
		{"redis mode", func(c *config.Config) {
			c.Redis.Enabled = true
			c.Redis.Mode = "sentinel"
		}, "redis.mode"},
		{"kafka brokers", func(c *config.Config) {
			c.Kafka.Enabled = true
			c.Kafka.Brokers = nil
		}, "kafka"},
		{"minio creds", func(c *config.Config) { c.MinIO.Enabled = true }, "minio credentials"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestConfig_Validate_DisabledBackendsAreNotChecked(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Redis.Addr = ""
	cfg.Kafka.Brokers = nil
	cfg.MinIO.Endpoint = ""
	assert.NoError(t, cfg.Validate())
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0.0.0.0:8000", validConfig().Server.Addr())
}

//Personal.AI order the ending
