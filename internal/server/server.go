// Package server provides the HTTP JSON API
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"garagepro/internal/config"
	"garagepro/internal/repository"
	"garagepro/internal/workshop"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	workshop *workshop.Service
	repos    *repository.Repositories
	logger   log.FieldLogger
	loc      *time.Location
	now      func() time.Time
	router   *chi.Mux
	http     *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, ws *workshop.Service, logger log.FieldLogger) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.StandardLogger()
	}

	s := &Server{
		config:   cfg,
		workshop: ws,
		repos:    ws.Repos(),
		logger:   logger,
		loc:      loc,
		now:      time.Now,
		router:   chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.http = &http.Server{
		Addr:         cfg.Address(),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Run starts the server and shuts it down gracefully on SIGINT, SIGTERM or
// when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.WithFields(log.Fields{
			"address": s.config.Address(),
			"debug":   s.config.Debug,
		}).Info("Server starting")
		serverErrors <- s.http.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		s.logger.WithField("signal", sig.String()).Warn("Received signal, shutting down")

	case <-ctx.Done():
		s.logger.Warn("Context cancelled, shutting down")
	}

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.WithError(err).Error("Graceful shutdown failed")
		if err := s.http.Close(); err != nil {
			return fmt.Errorf("failed to close server: %w", err)
		}
	}

	s.logger.Info("Server shutdown complete")
	return nil
}

// setupMiddleware configures global middleware
func (s *Server) setupMiddleware() {
	// Real IP detection (important for logging behind proxies)
	s.router.Use(middleware.RealIP)

	// Request ID for tracing, set before logging so entries carry it
	s.router.Use(middleware.RequestID)

	s.router.Use(s.requestLogger)

	// Panic recovery
	s.router.Use(middleware.Recoverer)

	s.router.Use(securityHeaders)

	// Response compression (level 5 is a good balance)
	s.router.Use(middleware.Compress(5))

	// Timeout for requests
	s.router.Use(middleware.Timeout(30 * time.Second))
}

// GetRouter returns the chi router (useful for testing)
func (s *Server) GetRouter() *chi.Mux {
	return s.router
}
