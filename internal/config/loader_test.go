package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  host: "127.0.0.1"
  port: 8080
  mode: debug
chem:
  compute_timeout: 5s
  max_concurrency: 2
  max_atoms: 250
redis:
  enabled: true
  addr: "cache:6379"
  key_prefix: "test:"
kafka:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
  ensure_topics: true
minio:
  enabled: true
  endpoint: "minio:9000"
  access_key_id: "key"
  secret_access_key: "secret"
  bucket: "exports"
  presign_expiry: 15m
log:
  level: debug
  format: console
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 5*time.Second, cfg.Chem.ComputeTimeout)
	assert.Equal(t, 2, cfg.Chem.MaxConcurrency)
	assert.Equal(t, 250, cfg.Chem.MaxAtoms)
	assert.True(t, cfg.Chem.CacheEnabled)
	assert.Equal(t, DefaultEmbedAttempts, cfg.Chem.EmbedAttempts)

	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "standalone", cfg.Redis.Mode)
	assert.Equal(t, "test:", cfg.Redis.KeyPrefix)

	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.EnsureTopics)

	assert.Equal(t, "exports", cfg.MinIO.Bucket)
	assert.Equal(t, 15*time.Minute, cfg.MinIO.PresignExpiry)

	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "molx", cfg.Metrics.Namespace)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "server: ["))
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "server:\n  mode: production\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.mode")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MOLX_SERVER_PORT", "9999")
	t.Setenv("MOLX_CHEM_COMPUTE_TIMEOUT", "45s")

	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Chem.ComputeTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MOLX_CHEM_MAX_ATOMS", "120")
	t.Setenv("MOLX_REDIS_ENABLED", "true")
	t.Setenv("MOLX_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("MOLX_LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Chem.MaxAtoms)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoadOrEnv(t *testing.T) {
	cfg, err := LoadOrEnv("")
	require.NoError(t, err)
	assert.Equal(t, DefaultComputeTimeout, cfg.Chem.ComputeTimeout)

	cfg, err = LoadOrEnv(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MOLX_CHEM_MAX_ATOMS=77\n"), 0o644))
	t.Setenv("MOLX_CHEM_MAX_ATOMS", "")
	require.NoError(t, os.Unsetenv("MOLX_CHEM_MAX_ATOMS"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "absent.env")))
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.Chem.MaxAtoms)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yaml")) })
}

func TestWatch_ReloadsLogLevel(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	changed := make(chan string, 4)
	Watch(path, func(c *Config) {
		select {
		case changed <- c.Log.Level:
		default:
		}
	}, nil)

	time.Sleep(50 * time.Millisecond)
	updated := strings.Replace(validConfigYAML, "level: debug", "level: error", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case lvl := <-changed:
		assert.Equal(t, "error", lvl)
	case <-time.After(3 * time.Second):
		t.Skip("filesystem notifications unavailable")
	}
}

//Personal.AI order the ending
