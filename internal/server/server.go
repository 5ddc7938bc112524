// Package server provides the HTTP server for the application. It wires
// configuration, database, repositories, services, handlers and routes,
// and manages the server lifecycle including graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Innei/mx-gobackend/internal/auth"
	"github.com/Innei/mx-gobackend/internal/config"
	"github.com/Innei/mx-gobackend/internal/constants"
	"github.com/Innei/mx-gobackend/internal/database"
	"github.com/Innei/mx-gobackend/internal/handlers"
	"github.com/Innei/mx-gobackend/internal/repository"
	"github.com/Innei/mx-gobackend/internal/service"
	"github.com/Innei/mx-gobackend/internal/utils/ratelimit"
	"github.com/Innei/mx-gobackend/migrations"
)

// Handlers contains all HTTP handlers for the application
type Handlers struct {
	// OwnerHandler manages owner account endpoints
	OwnerHandler *handlers.OwnerHandler

	// TokenHandler manages API token endpoints
	TokenHandler *handlers.TokenHandler
}

// Server represents the API server. It encapsulates all components and
// handles initialization, startup and graceful shutdown.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// router handles HTTP routing
	router chi.Router

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// guard authenticates requests on protected routes
	guard *auth.Guard

	// loginLimiter throttles login attempts per client address
	loginLimiter *ratelimit.Store

	// tokenService is kept for maintenance tasks
	tokenService *service.TokenService

	// maintenanceCancel stops the background cleanup loop
	maintenanceCancel context.CancelFunc

	// httpServer is the underlying HTTP server
	httpServer *http.Server
}

// NewServer creates a new server instance with all required components.
// Initialization order: database, auth providers, repositories, services,
// handlers, routes.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	if err := s.setupDatabase(); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	s.setupComponents()
	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// setupDatabase initializes the database connection and runs migrations
func (s *Server) setupDatabase() error {
	db, err := database.Connect(s.Config)
	if err != nil {
		return err
	}

	s.Db = db

	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

// setupComponents wires auth providers, repositories, services and
// handlers in dependency order.
func (s *Server) setupComponents() {
	jwtService := auth.NewJWTService(&s.Config.JWT)
	passwordCfg := auth.ConfigFromAppConfig(s.Config)

	ownerRepo := repository.NewOwnerRepository(s.Db)
	tokenRepo := repository.NewTokenRepository(s.Db)

	ownerService := service.NewOwnerService(ownerRepo, passwordCfg)
	s.tokenService = service.NewTokenService(jwtService, tokenRepo, ownerRepo, s.Config.Token.DefaultExpiry)

	s.guard = auth.NewGuard(s.tokenService, ownerRepo)

	s.loginLimiter = ratelimit.NewStore(
		ratelimit.Rate{
			RequestsPerSecond: constants.LoginRatePerSecond,
			Burst:             constants.LoginBurst,
		},
		constants.RateLimitCleanupInterval,
	)

	s.Handlers = &Handlers{
		OwnerHandler: handlers.NewOwnerHandler(ownerService, s.tokenService, s.Config.JWT.Expiry),
		TokenHandler: handlers.NewTokenHandler(s.tokenService),
	}
}

// Start starts the HTTP server and blocks until a shutdown signal or a
// server error.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	s.SetupMaintenanceTasks()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server, letting in-flight requests
// finish before closing connections.
func (s *Server) Shutdown(ctx context.Context) error {
	// Stop background maintenance before the database goes away
	s.stopMaintenance()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	s.Db.Close()
	log.Info().Msg("Database connection closed")

	return nil
}

// SetupMaintenanceTasks starts the periodic cleanup of expired API tokens.
// The loop runs until Shutdown cancels it.
func (s *Server) SetupMaintenanceTasks() {
	ctx, cancel := context.WithCancel(context.Background())
	s.maintenanceCancel = cancel

	go s.maintenanceLoop(ctx, constants.DBMaintenanceInterval)
}

// stopMaintenance cancels the background cleanup loop if it is running
func (s *Server) stopMaintenance() {
	if s.maintenanceCancel != nil {
		s.maintenanceCancel()
	}
}

// maintenanceLoop sweeps expired API tokens on every tick until the
// context is cancelled.
func (s *Server) maintenanceLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)

			if count, err := s.tokenService.CleanupExpiredAPITokens(sweepCtx); err != nil {
				log.Error().Err(err).Msg("Failed to cleanup expired API tokens")
			} else if count > 0 {
				log.Info().Int64("count", count).Msg("Cleaned up expired API tokens")
			}

			cancel()
		}
	}
}
