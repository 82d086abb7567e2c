// Package http runs the HTTP server: binding, serving until the context is
// cancelled and graceful shutdown. Routes live in internal/server.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/conneroisu/inkpot/internal/config"
	"github.com/conneroisu/inkpot/internal/logging"
)

const readHeaderTimeout = 10 * time.Second

// Server owns the http.Server for one process. httpServer and listener are
// guarded by mutex; isShutdown moves from false to true once.
type Server struct {
	config     *config.Config
	httpServer *http.Server
	listener   net.Listener
	logger     logging.Logger

	mutex      sync.RWMutex
	isShutdown bool
	ready      chan struct{}
	readyOnce  sync.Once
}

// NewServer prepares a server bound to the configured address once Start
// is called.
func NewServer(cfg *config.Config, handler http.Handler, logger logging.Logger) *Server {
	if cfg == nil {
		panic("http.NewServer: config cannot be nil")
	}
	if handler == nil {
		panic("http.NewServer: handler cannot be nil")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: logger.WithComponent("http"),
		ready:  make(chan struct{}),
	}
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down within the configured shutdown timeout. It
// returns nil after a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mutex.Lock()
	if s.isShutdown {
		s.mutex.Unlock()
		return errors.New("server has been shut down")
	}
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.mutex.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener
	s.mutex.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })

	s.logger.Info(ctx, "Server listening", "addr", listener.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)

	case err := <-errChan:
		return err
	}
}

// Shutdown stops accepting connections and waits for in-flight requests.
// Calling it more than once is safe.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.isShutdown {
		return nil
	}
	s.isShutdown = true

	s.logger.Info(ctx, "Shutting down server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address once listening, otherwise the configured
// one. With port 0 this reports the port the system picked.
func (s *Server) Addr() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// IsShutdown reports whether Shutdown has been called
func (s *Server) IsShutdown() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.isShutdown
}
