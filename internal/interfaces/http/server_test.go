package http

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathioLucas/Molecular-expolrer/internal/config"
	"github.com/MathioLucas/Molecular-expolrer/internal/testutil"
)

func TestServer_ServeAndStop(t *testing.T) {
	log := testutil.NewMockLogger()
	router := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "pong")
	})
	srv := NewServer(config.ServerConfig{Host: "127.0.0.1", ShutdownTimeout: time.Second}, router, log)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	require.NoError(t, srv.Stop(context.Background()))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, log.HasMessage("info", "HTTP server stopped"))
}

func TestServer_StartInvalidAddr(t *testing.T) {
	srv := NewServer(config.ServerConfig{Host: "256.0.0.1", Port: 1}, http.NotFoundHandler(), nil)

	err := srv.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on")
}

func TestServer_Handler(t *testing.T) {
	h := http.NotFoundHandler()
	srv := NewServer(config.ServerConfig{}, h, nil)
	assert.NotNil(t, srv.Handler())
}

//Personal.AI order the ending
