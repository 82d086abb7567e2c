package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/inkpot/internal/logging"
	"github.com/conneroisu/inkpot/internal/testutils"
)

func TestServerLifecycle(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "hello")
	})
	srv := NewServer(testutils.CreateTestConfig(), handler, logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	select {
	case <-srv.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("server never became ready")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.True(t, srv.IsShutdown())
	assert.NoError(t, srv.Shutdown(context.Background()))
	assert.Error(t, srv.Start(context.Background()), "a stopped server cannot restart")
}

func TestServerPortInUse(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	cfg := testutils.CreateTestConfig()
	cfg.Server.Port = occupied.Addr().(*net.TCPAddr).Port

	srv := NewServer(cfg, http.NotFoundHandler(), nil)
	err = srv.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address already in use")
}

func TestNewServerPanics(t *testing.T) {
	assert.Panics(t, func() { NewServer(nil, http.NotFoundHandler(), nil) })
	assert.Panics(t, func() { NewServer(testutils.CreateTestConfig(), nil, nil) })
}
