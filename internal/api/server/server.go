// Package server provides the HTTP server implementation
package server

// @title           authcore API
// @version         1.0
// @description     Authentication and user account API.
//
// @description.markdown
// Public login routes are rate limited per client IP. When the limit is
// exceeded the API answers 429 with X-RateLimit-Limit, X-RateLimit-Reset
// and Retry-After headers.
//
// @host            localhost:8080
// @BasePath        /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token authentication

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"authcore/internal/config"

	"go.uber.org/zap"
)

// Server represents the HTTP server
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// New creates a new server instance
func New(cfg config.APIConfig, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort("", cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown gives outstanding requests the configured timeout to complete
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
