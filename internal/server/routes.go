// Package server provides the HTTP server for the obesity prediction API.
// It handles routing, middleware configuration, and server lifecycle management.
//
// The package follows a structured approach to route organization, with clear
// grouping based on functionality (auth, prediction, admin) and proper security
// measures for protected routes. CORS and other security headers are carefully
// configured to provide secure access while enabling legitimate API usage.
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/vitapredict/obesity-backend/internal/config"
	"github.com/vitapredict/obesity-backend/internal/constants"
	"github.com/vitapredict/obesity-backend/internal/middleware"
	"github.com/vitapredict/obesity-backend/internal/utils"
)

// SetupRoutes configures the routes for the application.
// It creates a router hierarchy with middleware and grouped routes
// according to functionality for organized API structure.
//
// The configured routes include:
// - Health check and version endpoints (unprotected)
// - Authentication endpoints (register, login, token refresh, logout)
// - Prediction endpoints (classify, history, model metadata)
// - Administration endpoints (user management, aggregate stats)
//
// Route protection is handled through middleware for authenticated endpoints,
// with an additional admin gate for the administration group.
func (s *Server) SetupRoutes() {
	// Create router
	r := chi.NewRouter()

	// Get allowed origins from environment or use default values
	allowedOrigins := getAllowedOrigins(s.Config)

	// Custom CORS middleware that applies to all routes
	// This ensures CORS headers are applied properly and consistently
	r.Use(corsMiddleware(allowedOrigins))

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders())

	// Health check and version routes (unprotected)
	r.Group(func(r chi.Router) {
		r.Get(constants.HealthPath, func(w http.ResponseWriter, r *http.Request) {
			// Check database connection
			err := s.Db.HealthCheck(r.Context())
			if err != nil {
				log.Error().Err(err).Msg("Health check failed")
				utils.Error(w, http.StatusServiceUnavailable, "service_unavailable", "Service is not healthy", nil)
				return
			}

			utils.JSON(w, http.StatusOK, map[string]interface{}{
				"status":       "healthy",
				"model_loaded": s.predictor != nil,
				"version":      s.Config.App.Version,
			})
		})

		r.Get(constants.VersionPath, func(w http.ResponseWriter, r *http.Request) {
			utils.JSON(w, http.StatusOK, map[string]string{
				"version":     s.Config.App.Version,
				"environment": s.Config.App.Environment,
			})
		})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Authentication routes
		r.Route("/auth", func(r chi.Router) {
			// Public auth endpoints
			r.Group(func(r chi.Router) {
				r.Post("/register", s.Handlers.AuthHandler.Register)
				r.With(middleware.RateLimit(s.rateLimits, middleware.RateLimitLogin)).
					Post("/login", s.Handlers.AuthHandler.Login)
				r.Post("/refresh", s.Handlers.AuthHandler.RefreshToken)
				r.Post("/logout", s.Handlers.AuthHandler.Logout)
			})

			// Protected auth endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.JWTAuth(s.authProviders.JWTService))
				r.Get("/me", s.Handlers.AuthHandler.Me)
			})
		})

		// Prediction routes (all protected)
		r.Route("/prediction", func(r chi.Router) {
			r.Use(middleware.JWTAuth(s.authProviders.JWTService))

			r.With(middleware.RateLimit(s.rateLimits, middleware.RateLimitPrediction)).
				Post("/", s.Handlers.PredictionHandler.Predict)
			r.Get("/history", s.Handlers.PredictionHandler.History)
			r.Delete("/history", s.Handlers.PredictionHandler.ClearHistory)
			r.Get("/{predictionID}", s.Handlers.PredictionHandler.GetPrediction)
		})

		// Model metadata (protected)
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(s.authProviders.JWTService))
			r.Get("/metrics", s.Handlers.PredictionHandler.ModelInfo)
		})

		// Administration routes (protected, admin only)
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.JWTAuth(s.authProviders.JWTService))
			r.Use(middleware.AdminOnly())

			r.Get("/users", s.Handlers.AdminHandler.ListUsers)
			r.Get("/users/{userID}", s.Handlers.AdminHandler.GetUser)
			r.Delete("/users/{userID}", s.Handlers.AdminHandler.DeleteUser)
			r.Put("/users/{userID}/toggle-admin", s.Handlers.AdminHandler.ToggleAdmin)
			r.Put("/users/{userID}/toggle-active", s.Handlers.AdminHandler.ToggleActive)
			r.Get("/stats", s.Handlers.AdminHandler.Stats)
		})
	})

	// Set the router
	s.router = r
}

// GetRouter returns the configured router.
//
// Returns:
//   - The chi.Router implementation used by the server
//
// This method is primarily used for testing and for
// integrating the router with other components.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// corsMiddleware creates a custom CORS middleware with the specified allowed origins.
// It handles Cross-Origin Resource Sharing to allow browsers to safely access the API
// from different domains while protecting against unauthorized cross-origin requests.
//
// Parameters:
//   - allowedOrigins: A list of origins that are allowed to access the API
//
// Returns:
//   - A middleware function that adds CORS headers to responses
//
// The middleware checks incoming requests against the allowed origins list,
// adds appropriate CORS headers to responses, and handles OPTIONS preflight requests.
// It supports credentials mode for authenticated cross-origin requests.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Check if the request's origin is in our allowed list
			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					// Set CORS headers for all responses, not just OPTIONS
					w.Header().Set("Access-Control-Allow-Origin", origin)

					// These headers are essential for credentials mode
					w.Header().Set("Access-Control-Allow-Credentials", "true")

					// For non-OPTIONS requests, just set these headers and continue
					if r.Method != http.MethodOptions {
						next.ServeHTTP(w, r)
						return
					}

					// Handle OPTIONS preflight requests
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")
					w.Header().Set("Access-Control-Max-Age", "300")

					// Respond to preflight request
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}

			// If origin is not allowed, continue without setting CORS headers
			next.ServeHTTP(w, r)
		})
	}
}

// getAllowedOrigins resolves the allowed CORS origins. The ALLOWED_ORIGINS
// environment variable takes precedence, then the configured cors.allowed_origins
// list, and finally a development-friendly default.
//
// Parameters:
//   - cfg: The application configuration
//
// Returns:
//   - A slice of strings representing allowed origins for CORS
func getAllowedOrigins(cfg *config.AppConfig) []string {
	// Check if ALLOWED_ORIGINS is set in environment
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")

	// If ALLOWED_ORIGINS is set, use it
	if allowedOriginsEnv != "" {
		// Split by comma and trim spaces
		origins := strings.Split(allowedOriginsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		log.Info().Strs("allowed_origins", origins).Msg("Using CORS allowed origins from environment")
		return origins
	}

	// Fall back to the configured origins
	if len(cfg.CORS.AllowedOrigins) > 0 {
		return cfg.CORS.AllowedOrigins
	}

	defaultOrigins := []string{"http://localhost:5173", "https://localhost:5173"}
	log.Info().Strs("allowed_origins", defaultOrigins).Msg("Using default CORS allowed origins")
	return defaultOrigins
}
