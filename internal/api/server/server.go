package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/graveshift/graveshift/internal/adapter"
	"github.com/graveshift/graveshift/internal/api/actions"
	"github.com/graveshift/graveshift/internal/api/middleware"
	"github.com/graveshift/graveshift/internal/api/rest"
	"github.com/graveshift/graveshift/internal/logger"
	"github.com/graveshift/graveshift/internal/migration"
	"github.com/graveshift/graveshift/internal/ownership"
	"github.com/graveshift/graveshift/internal/scanner"
)

// Config holds the server configuration
type Config struct {
	Debug         bool
	Host          string
	Port          int
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	ActionVersion string
	SolanaChainID string
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	scanner    scanner.Scanner
	verifier   ownership.Verifier
	builder    migration.Builder
	clock      adapter.Clock
	httpServer *http.Server
}

// New creates a new API server
func New(cfg Config, scan scanner.Scanner, verifier ownership.Verifier, builder migration.Builder, clock adapter.Clock) *Server {
	return &Server{
		config:   cfg,
		scanner:  scan,
		verifier: verifier,
		builder:  builder,
		clock:    clock,
	}
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS())

	// Setup REST routes
	restHandler := rest.NewHandler(s.scanner, s.verifier, s.clock)
	rest.SetupRoutes(router, restHandler)

	// Setup Solana Actions routes
	actionsHandler := actions.NewHandler(s.verifier, s.builder)
	actions.SetupRoutes(router, actionsHandler, s.config.ActionVersion, s.config.SolanaChainID)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
