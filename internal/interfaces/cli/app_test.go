package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/internal/config"
	"github.com/MathioLucas/Molecular-expolrer/internal/testutil"
	moltypes "github.com/MathioLucas/Molecular-expolrer/pkg/types/molecule"
)

func defaultConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Metrics.Enabled = true
	cfg.Chem.CacheEnabled = true
	return cfg
}

func TestNewApp_NoBackends(t *testing.T) {
	app, err := NewApp(context.Background(), defaultConfig(), testutil.NewMockLogger())
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Service)
	assert.NotNil(t, app.Collector)
	assert.NotNil(t, app.Metrics)
	assert.Empty(t, app.Checkers)
}

func TestNewApp_MetricsDisabled(t *testing.T) {
	cfg := defaultConfig()
	cfg.Metrics.Enabled = false

	app, err := NewApp(context.Background(), cfg, testutil.NewMockLogger())
	require.NoError(t, err)
	assert.Nil(t, app.Collector)
	assert.NotNil(t, app.Metrics)
}

func TestNewApp_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := defaultConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()

	app, err := NewApp(context.Background(), cfg, testutil.NewMockLogger())
	require.NoError(t, err)
	defer app.Close()

	require.Len(t, app.Checkers, 1)
	assert.Equal(t, "redis", app.Checkers[0].Name())
	assert.NoError(t, app.Checkers[0].Check(context.Background()))

	out := app.Service.ProcessMolecule(context.Background(), moltypes.StructureRequest{SMILES: "CCO"})
	require.True(t, out.OK())
	assert.NotEmpty(t, mr.Keys())
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	cfg := defaultConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "127.0.0.1:1"
	cfg.Redis.DialTimeout = 200 * time.Millisecond
	cfg.Redis.MaxRetries = -1

	_, err := NewApp(context.Background(), cfg, testutil.NewMockLogger())
	assert.Error(t, err)
}

func TestRunServe_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	cfg := defaultConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = port
	cfg.Server.Mode = "test"
	log := testutil.NewMockLogger()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, &CLIContext{Config: cfg, Logger: log}) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/examples/caffeine", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.True(t, log.HasMessage("info", "Starting molx API server"))
	assert.True(t, log.HasMessage("info", "HTTP server stopped"))
}

//Personal.AI order the ending
