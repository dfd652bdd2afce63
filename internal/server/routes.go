package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/matrizrfm/auth-api/internal/constants"
	"github.com/matrizrfm/auth-api/internal/middleware"
	"github.com/matrizrfm/auth-api/internal/utils"
)

// SetupRoutes configures the routes for the application.
//
// The configured routes include:
// - Health check, version and metrics endpoints (unprotected)
// - Authentication endpoints, mounted at both /auth and /api/auth
//
// Only /me requires a session token.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	allowedOrigins := s.Config.CORS.AllowedOrigins
	log.Info().Strs("allowed_origins", allowedOrigins).Msg("Using CORS allowed origins")

	r.Use(corsMiddleware(allowedOrigins, s.Config.CORS.AllowCredentials))

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders())
	r.Use(s.Metrics.Middleware)
	r.Use(middleware.RequestLogger(s.Config.Logging.RequestLog))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.NotFound(w, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.MethodNotAllowed(w)
	})

	r.Group(func(r chi.Router) {
		r.Get(constants.HealthPath, s.Handlers.HealthHandler.Health)
		r.Get(constants.VersionPath, s.Handlers.HealthHandler.Version)

		if s.Metrics != nil {
			r.Method(http.MethodGet, s.Config.Metrics.Path, s.Metrics.Handler())
		}
	})

	r.Route(constants.AuthBasePath, s.authRoutes)
	r.Route(constants.APIAuthBasePath, s.authRoutes)

	s.router = r
}

// authRoutes registers the authentication endpoints on a mount point
func (s *Server) authRoutes(r chi.Router) {
	h := s.Handlers.AuthHandler

	// Public auth endpoints
	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.NoCache)

		r.Post(constants.AuthRegisterRoute, h.Register)
		r.Post(constants.AuthLoginRoute, h.Login)
		r.Post(constants.AuthForgotPasswordRoute, h.ForgotPassword)
		r.Post(constants.AuthResetPasswordRoute, h.ResetPassword)
		r.Post(constants.AuthVerifyTokenRoute, h.VerifyToken)
	})

	// Protected auth endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(s.authProviders.JWTService))
		r.Get(constants.AuthMeRoute, h.Me)
	})
}

// GetRouter returns the configured router
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// corsMiddleware adds CORS headers for allowed origins and answers
// preflight requests with 204. Requests from other origins pass through
// without CORS headers.
func corsMiddleware(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin == "" || !originAllowed(allowedOrigins, origin) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			if allowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "300")
			w.WriteHeader(http.StatusNoContent)
		})
	}
}

func originAllowed(allowedOrigins []string, origin string) bool {
	for _, allowed := range allowedOrigins {
		allowed = strings.TrimRight(strings.TrimSpace(allowed), "/")
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
