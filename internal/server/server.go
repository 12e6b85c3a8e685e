// Package server provides the HTTP server for the obesity prediction API.
// It handles routing, middleware configuration, and server lifecycle management.
//
// The server package follows a structured initialization approach with dependency
// injection and proper lifecycle management. Startup wires the database, the
// serving model artifacts, authentication providers, repositories, services and
// handlers in order, and shutdown drains in-flight requests before closing the
// database connection.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/vitapredict/obesity-backend/internal/auth"
	"github.com/vitapredict/obesity-backend/internal/config"
	"github.com/vitapredict/obesity-backend/internal/constants"
	"github.com/vitapredict/obesity-backend/internal/database"
	"github.com/vitapredict/obesity-backend/internal/handlers"
	"github.com/vitapredict/obesity-backend/internal/middleware"
	"github.com/vitapredict/obesity-backend/internal/ml"
	"github.com/vitapredict/obesity-backend/internal/repository"
	"github.com/vitapredict/obesity-backend/internal/service"
	"github.com/vitapredict/obesity-backend/internal/utils/ratelimit"
	"github.com/vitapredict/obesity-backend/migrations"
	"github.com/vitapredict/obesity-backend/scripts"
)

// Handlers contains all HTTP handlers for the application.
// It centralizes handler management for consistent request processing
// and simplifies dependency injection throughout the application.
type Handlers struct {
	// AuthHandler manages registration, login and token endpoints
	AuthHandler *handlers.AuthHandler

	// PredictionHandler manages prediction and model metadata endpoints
	PredictionHandler *handlers.PredictionHandler

	// AdminHandler manages administrator-only user management endpoints
	AdminHandler *handlers.AdminHandler
}

// AuthProviders contains all authentication providers for the application.
// This structure encapsulates authentication-related dependencies
// to simplify initialization and testing.
type AuthProviders struct {
	// JWTService handles JWT token generation and validation
	JWTService *auth.JWTService

	// PasswordCfg contains password hashing and validation configuration
	PasswordCfg *auth.PasswordConfig
}

// Server represents the obesity prediction API server.
// It encapsulates all server components and handles server lifecycle management,
// including initialization, startup, and graceful shutdown.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// router handles HTTP routing
	router chi.Router

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// authProviders contains authentication services
	authProviders *AuthProviders

	// predictor serves classifications from the loaded model artifacts
	predictor *ml.Predictor

	// rateLimits holds the per-client token buckets for throttled routes
	rateLimits *ratelimit.Store

	// repositories provides data access for each domain entity
	repositories struct {
		userRepo       repository.UserRepository
		predictionRepo repository.PredictionRepository
	}

	// services implements the business logic on top of the repositories
	services struct {
		authService       *service.AuthService
		userService       *service.UserService
		predictionService *service.PredictionService
	}

	// httpServer is the underlying HTTP server
	httpServer *http.Server
}

// NewServer creates a new server instance with all required components.
// It connects the database, loads the model artifacts, initializes
// authentication providers, repositories, services and handlers,
// then sets up the HTTP routes.
//
// Parameters:
//   - cfg: Application configuration including database, server, model and auth settings
//
// Returns:
//   - A fully initialized Server instance ready to start
//   - An error if initialization of any component fails
//
// The server initialization follows a specific order to ensure proper dependency
// management: database → model → auth providers → repositories → services → handlers → routes.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	// Create server instance
	s := &Server{
		Config: cfg,
	}

	// Initialize components
	if err := s.setupDatabase(); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := s.setupModel(); err != nil {
		return nil, fmt.Errorf("failed to set up model: %w", err)
	}

	if err := s.setupAuthProviders(); err != nil {
		return nil, fmt.Errorf("failed to set up auth providers: %w", err)
	}

	if err := s.setupRepositories(); err != nil {
		return nil, fmt.Errorf("failed to set up repositories: %w", err)
	}

	if err := s.setupServices(); err != nil {
		return nil, fmt.Errorf("failed to set up services: %w", err)
	}

	if err := s.setupHandlers(); err != nil {
		return nil, fmt.Errorf("failed to set up handlers: %w", err)
	}

	s.setupRateLimits()

	// Set up routes
	s.SetupRoutes()

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupDatabase initializes the database connection and runs migrations.
// It ensures the database schema is up-to-date and seeds the bootstrap
// administrator account if one is configured.
//
// Returns:
//   - An error if database connection, migration, or seeding fails
func (s *Server) setupDatabase() error {
	// Connect to the database
	db, err := database.Connect(s.Config)
	if err != nil {
		return err
	}

	s.Db = db

	// Run migrations to create tables if they don't exist
	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Seed initial data
	seeder := scripts.NewSeeder(db, auth.ConfigFromAppConfig(s.Config))
	if err := seeder.SeedDatabase(context.Background()); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	return nil
}

// setupModel loads the serving artifacts produced by the offline trainer and
// builds the predictor. Missing or corrupt artifacts are a fatal startup error
// since the service cannot classify without them.
//
// Returns:
//   - An error if any mandatory artifact cannot be loaded
func (s *Server) setupModel() error {
	artifacts, err := ml.LoadArtifacts(&s.Config.Model)
	if err != nil {
		return fmt.Errorf("failed to load model artifacts from %s: %w", s.Config.Model.Dir, err)
	}

	s.predictor = ml.NewPredictor(artifacts)

	log.Info().
		Str("model_dir", s.Config.Model.Dir).
		Int("trees", len(artifacts.Forest.Trees)).
		Int("classes", artifacts.Forest.NumClasses).
		Msg("Model artifacts loaded")

	return nil
}

// setupAuthProviders initializes authentication providers.
// It creates services for JWT token management and password handling.
//
// Returns:
//   - An error if auth provider initialization fails
func (s *Server) setupAuthProviders() error {
	// Create JWT service
	jwtService := auth.NewJWTService(&s.Config.JWT)

	// Create password config
	passwordCfg := auth.ConfigFromAppConfig(s.Config)

	// Store providers
	s.authProviders = &AuthProviders{
		JWTService:  jwtService,
		PasswordCfg: passwordCfg,
	}

	return nil
}

// setupRepositories initializes all data repositories.
// It creates repository instances for each domain entity using the database connection.
//
// Returns:
//   - An error if repository initialization fails
func (s *Server) setupRepositories() error {
	s.repositories.userRepo = repository.NewUserRepository(s.Db)
	s.repositories.predictionRepo = repository.NewPredictionRepository(s.Db)

	return nil
}

// setupServices initializes all business services.
// It creates service instances using the previously initialized repositories.
//
// Returns:
//   - An error if service initialization fails or required dependencies are missing
func (s *Server) setupServices() error {
	if s.authProviders == nil || s.authProviders.JWTService == nil {
		return fmt.Errorf("JWT service not initialized")
	}
	if s.authProviders.PasswordCfg == nil {
		return fmt.Errorf("password config not initialized")
	}
	if s.predictor == nil {
		return fmt.Errorf("predictor not initialized")
	}

	s.services.authService = service.NewAuthService(
		s.repositories.userRepo,
		s.authProviders.JWTService,
		s.authProviders.PasswordCfg,
	)

	s.services.userService = service.NewUserService(
		s.repositories.userRepo,
		s.repositories.predictionRepo,
	)

	s.services.predictionService = service.NewPredictionService(
		s.predictor,
		s.repositories.predictionRepo,
	)

	return nil
}

// setupHandlers initializes all HTTP request handlers.
// It creates handler instances using the previously initialized services.
//
// Returns:
//   - An error if handler initialization fails or required services are missing
func (s *Server) setupHandlers() error {
	// Initialize handlers with proper dependency injection
	s.Handlers = &Handlers{
		AuthHandler:       handlers.NewAuthHandler(s.services.authService, s.authProviders.JWTService),
		PredictionHandler: handlers.NewPredictionHandler(s.services.predictionService),
		AdminHandler:      handlers.NewAdminHandler(s.services.userService),
	}

	if s.Handlers.AuthHandler == nil {
		return fmt.Errorf("failed to initialize AuthHandler")
	}

	return nil
}

// setupRateLimits configures the per-client token buckets for throttled routes.
// Login attempts and predictions carry separate budgets.
func (s *Server) setupRateLimits() {
	store := ratelimit.NewStore(
		ratelimit.Rate{RequestsPerSecond: constants.LoginRatePerSecond, Burst: constants.LoginRateBurst},
		constants.RateLimitCleanupInterval,
	)
	store.SetRate(middleware.RateLimitLogin, ratelimit.Rate{
		RequestsPerSecond: constants.LoginRatePerSecond,
		Burst:             constants.LoginRateBurst,
	})
	store.SetRate(middleware.RateLimitPrediction, ratelimit.Rate{
		RequestsPerSecond: constants.PredictionRatePerSecond,
		Burst:             constants.PredictionRateBurst,
	})

	s.rateLimits = store
}

// Start starts the HTTP server and sets up signal handling for graceful shutdown.
// It runs in a blocking mode, waiting for either server errors or shutdown signals.
//
// Returns:
//   - An error if the server fails to start or encounters an error during operation
func (s *Server) Start() error {
	// Create a channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start the server in a separate goroutine
	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	// Create a channel to listen for OS signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until an OS signal or an error is received
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		// Create a context with a timeout for graceful shutdown
		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		// Shutdown the server
		if err := s.Shutdown(ctx); err != nil {
			// Shutdown the server immediately if graceful shutdown fails
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server, closing all connections properly.
// It ensures in-flight requests are completed before shutting down.
//
// Parameters:
//   - ctx: Context with timeout for the shutdown operation
//
// Returns:
//   - An error if shutdown fails within the context timeout
func (s *Server) Shutdown(ctx context.Context) error {
	// Shutdown the HTTP server
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	// Stop the rate limiter cleanup goroutine
	if s.rateLimits != nil {
		s.rateLimits.Stop()
	}

	// Close the database connection
	s.Db.Close()
	log.Info().Msg("Database connection closed")

	return nil
}
