//go:build integration

// Integration tests against real Redis, Kafka and MinIO instances. Each
// backend runs in a container started on first use and shared by the whole
// package; set MOLX_IT_REDIS_ADDR, MOLX_IT_KAFKA_BROKERS or
// MOLX_IT_MINIO_ENDPOINT to use an existing instance instead. Tests need
// Docker and the "integration" build tag.
package integration

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MathioLucas/Molecular-expolrer/internal/testutil"
)

const (
	minioUser     = "minioadmin"
	minioPassword = "minioadmin"
)

// ─────────────────────────────────────────────────────────────────────────────
// Shared containers
// ─────────────────────────────────────────────────────────────────────────────

type sharedContainer struct {
	once sync.Once
	addr string
	err  error
}

var (
	redisContainer sharedContainer
	kafkaContainer sharedContainer
	minioContainer sharedContainer

	startedMu sync.Mutex
	started   []testcontainers.Container
)

func TestMain(m *testing.M) {
	code := m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	startedMu.Lock()
	for _, c := range started {
		_ = c.Terminate(ctx)
	}
	startedMu.Unlock()
	cancel()
	os.Exit(code)
}

// requireIntegration skips t in short mode or when no container runtime is
// reachable.
func requireIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// address returns the override in env, or starts the shared container once
// and returns its mapped endpoint.
func (s *sharedContainer) address(t *testing.T, env string, start func(ctx context.Context) (string, error)) string {
	t.Helper()
	if v := os.Getenv(env); v != "" {
		return v
	}
	s.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		s.addr, s.err = start(ctx)
	})
	require.NoError(t, s.err, "starting container for %s", env)
	return s.addr
}

// startContainer runs req and returns the host:port of its single exposed port.
func startContainer(ctx context.Context, req testcontainers.ContainerRequest) (string, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if c != nil {
		startedMu.Lock()
		started = append(started, c)
		startedMu.Unlock()
	}
	if err != nil {
		return "", err
	}
	return c.Endpoint(ctx, "")
}

func redisAddr(t *testing.T) string {
	return redisContainer.address(t, "MOLX_IT_REDIS_ADDR", func(ctx context.Context) (string, error) {
		return startContainer(ctx, testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		})
	})
}

func kafkaBrokers(t *testing.T) []string {
	addr := kafkaContainer.address(t, "MOLX_IT_KAFKA_BROKERS", startKafka)
	return strings.Split(addr, ",")
}

// startKafka runs a single KRaft node. The broker advertises the host port it
// is published on, so that port is chosen before the container starts.
func startKafka(ctx context.Context) (string, error) {
	hostPort, err := freePort()
	if err != nil {
		return "", err
	}
	return startContainer(ctx, testcontainers.ContainerRequest{
		Image:        "apache/kafka:3.7.0",
		ExposedPorts: []string{fmt.Sprintf("%d:9092/tcp", hostPort)},
		Env: map[string]string{
			"KAFKA_NODE_ID":                                  "1",
			"KAFKA_PROCESS_ROLES":                            "broker,controller",
			"KAFKA_LISTENERS":                                "PLAINTEXT://:9092,CONTROLLER://:9093",
			"KAFKA_ADVERTISED_LISTENERS":                     fmt.Sprintf("PLAINTEXT://localhost:%d", hostPort),
			"KAFKA_CONTROLLER_LISTENER_NAMES":                "CONTROLLER",
			"KAFKA_LISTENER_SECURITY_PROTOCOL_MAP":           "CONTROLLER:PLAINTEXT,PLAINTEXT:PLAINTEXT",
			"KAFKA_CONTROLLER_QUORUM_VOTERS":                 "1@localhost:9093",
			"KAFKA_OFFSETS_TOPIC_REPLICATION_FACTOR":         "1",
			"KAFKA_TRANSACTION_STATE_LOG_REPLICATION_FACTOR": "1",
			"KAFKA_TRANSACTION_STATE_LOG_MIN_ISR":            "1",
			"KAFKA_GROUP_INITIAL_REBALANCE_DELAY_MS":         "0",
		},
		WaitingFor: wait.ForLog("Kafka Server started").WithStartupTimeout(120 * time.Second),
	})
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func minioEndpoint(t *testing.T) string {
	return minioContainer.address(t, "MOLX_IT_MINIO_ENDPOINT", func(ctx context.Context) (string, error) {
		return startContainer(ctx, testcontainers.ContainerRequest{
			Image:        "minio/minio:RELEASE.2024-01-16T16-07-38Z",
			ExposedPorts: []string{"9000/tcp"},
			Cmd:          []string{"server", "/data"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioUser,
				"MINIO_ROOT_PASSWORD": minioPassword,
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").
				WithStartupTimeout(60 * time.Second),
		})
	})
}

func minioAccessKey() string { return envOr("MOLX_IT_MINIO_ACCESS_KEY", minioUser) }

func minioSecretKey() string { return envOr("MOLX_IT_MINIO_SECRET_KEY", minioPassword) }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// uniqueName returns prefix plus a short random suffix so runs never share
// keys, topics or buckets.
func uniqueName(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// testContext returns a context cancelled at the end of t or after timeout.
func testContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// newLogger returns a recording logger so tests can assert on warnings.
func newLogger() *testutil.MockLogger { return testutil.NewMockLogger() }

//Personal.AI order the ending
