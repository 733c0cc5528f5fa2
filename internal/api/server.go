package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ceirr/sample-dashboard/internal/config"
	"github.com/ceirr/sample-dashboard/internal/gate"
)

// Server is the dashboard HTTP server.
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer builds the router for h and g.
func NewServer(cfg config.ServerConfig, h *Handlers, g *gate.Gate) *Server {
	handler := SetupRoutes(h, g, cfg.AllowedOrigins)
	return &Server{
		config:  cfg,
		handler: handler,
		// Each request downloads the whole sheet, so writes get more
		// room than reads.
		server: &http.Server{
			Handler:           handler,
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      2 * time.Minute,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.config.Addr() }

// Listen binds addr. Binding early lets main fail fast when the port is
// already taken, before anything is logged as started.
func (s *Server) Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("address %s is already in use: %w", addr, err)
	}
	return ln, nil
}

// Serve answers requests on ln until Shutdown. After Shutdown it returns
// http.ErrServerClosed immediately.
func (s *Server) Serve(ln net.Listener) error {
	return s.server.Serve(ln)
}

// Shutdown drains in-flight requests. Calling it before Serve still stops
// any later Serve.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}
