// Package server provides the HTTP server for the authentication API.
// It wires storage, mail delivery, services and handlers together and
// manages the server lifecycle.
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

	"github.com/matrizrfm/auth-api/internal/auth"
	"github.com/matrizrfm/auth-api/internal/config"
	"github.com/matrizrfm/auth-api/internal/constants"
	"github.com/matrizrfm/auth-api/internal/database"
	"github.com/matrizrfm/auth-api/internal/handlers"
	"github.com/matrizrfm/auth-api/internal/mail"
	"github.com/matrizrfm/auth-api/internal/metrics"
	"github.com/matrizrfm/auth-api/internal/middleware"
	"github.com/matrizrfm/auth-api/internal/repository"
	"github.com/matrizrfm/auth-api/internal/service"
	"github.com/matrizrfm/auth-api/migrations"
)

// Handlers contains all HTTP handlers for the application
type Handlers struct {
	AuthHandler   *handlers.AuthHandler
	HealthHandler *handlers.HealthHandler
}

// AuthProviders contains the session token and password hashing providers
type AuthProviders struct {
	// JWTService handles session token generation and validation
	JWTService *auth.JWTService

	// PasswordCfg contains password hashing parameters
	PasswordCfg *auth.PasswordConfig
}

// Repositories holds the stores selected by the database driver
type Repositories struct {
	Users       repository.UserRepository
	ResetTokens repository.ResetTokenRepository
}

// Server represents the API server.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db is nil when the memory driver is selected
	Db *database.Pool

	// Repos is the storage backing the services
	Repos *Repositories

	// AuthService implements the authentication flows
	AuthService *service.AuthService

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// Metrics is nil when metrics are disabled
	Metrics *metrics.Metrics

	router        chi.Router
	authProviders *AuthProviders
	mailSender    mail.Sender
	httpServer    *http.Server
	stopTasks     context.CancelFunc
}

// NewServer creates a new server instance with all required components.
//
// Components are initialized in dependency order:
// database → auth providers → mail → services → handlers → routes.
func NewServer(ctx context.Context, cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	if cfg.Metrics.Enabled {
		s.Metrics = metrics.New()
	}

	if err := s.setupDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	s.setupAuthProviders()

	if err := s.setupMail(ctx); err != nil {
		s.Db.Close()
		return nil, fmt.Errorf("failed to set up mail: %w", err)
	}

	s.setupServices()
	s.setupHandlers()

	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupDatabase selects the store. PostgreSQL is connected and migrated;
// the memory driver needs neither.
func (s *Server) setupDatabase(ctx context.Context) error {
	if s.Config.Database.IsMemory() {
		store := repository.NewMemoryStore()
		s.Repos = &Repositories{
			Users:       store.Users(),
			ResetTokens: store.ResetTokens(),
		}
		log.Warn().Msg("Using in-memory store; data is lost on restart")
		return nil
	}

	db, err := database.Connect(ctx, s.Config)
	if err != nil {
		return err
	}
	s.Db = db

	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	s.Repos = &Repositories{
		Users:       repository.NewUserRepository(db),
		ResetTokens: repository.NewResetTokenRepository(db),
	}
	return nil
}

func (s *Server) setupAuthProviders() {
	s.authProviders = &AuthProviders{
		JWTService:  auth.NewJWTService(&s.Config.JWT),
		PasswordCfg: auth.ConfigFromAppConfig(s.Config),
	}
}

func (s *Server) setupMail(ctx context.Context) error {
	sender, err := mail.NewSender(ctx, &s.Config.Mail)
	if err != nil {
		return err
	}
	s.mailSender = sender

	log.Info().Str("provider", sender.Name()).Msg("Mail sender configured")
	return nil
}

func (s *Server) setupServices() {
	emailService := service.NewEmailService(s.mailSender, s.Config, s.Metrics)

	s.AuthService = service.NewAuthService(
		s.Repos.Users,
		s.Repos.ResetTokens,
		s.authProviders.JWTService,
		emailService,
		s.authProviders.PasswordCfg,
		s.Config.ResetToken.Expiry,
		s.Metrics,
	)
}

func (s *Server) setupHandlers() {
	// A nil checker reports healthy, which is right for the memory store
	var checker handlers.HealthChecker
	if s.Db != nil {
		checker = s.Db
	}

	s.Handlers = &Handlers{
		AuthHandler:   handlers.NewAuthHandler(s.AuthService),
		HealthHandler: handlers.NewHealthHandler(checker, &s.Config.App),
	}
}

// Start starts the HTTP server and blocks until it fails or a shutdown
// signal is received, then shuts down gracefully.
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
		s.stopMaintenanceTasks()
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

// Shutdown stops background tasks, drains in-flight requests and closes
// the database connection.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopMaintenanceTasks()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	if s.Db != nil {
		s.Db.Close()
		log.Info().Msg("Database connection closed")
	}

	return nil
}

// SetupMaintenanceTasks starts the expired reset token sweep when
// reset_token.sweep_interval is positive. Without it, expired tokens are
// removed when they are next presented or replaced.
func (s *Server) SetupMaintenanceTasks() {
	interval := s.Config.ResetToken.SweepInterval
	if interval <= 0 || s.stopTasks != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.stopTasks = cancel

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweepResetTokens(ctx)
			}
		}
	}()

	log.Info().Dur("interval", interval).Msg("Reset token sweep scheduled")
}

func (s *Server) sweepResetTokens(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, constants.ResetTokenSweepTimeout)
	defer cancel()

	count, err := s.AuthService.CleanupExpiredResetTokens(sweepCtx)
	if err != nil {
		middleware.LogAndContinueOnError(err, "Failed to clean up expired reset tokens")
		return
	}
	if count > 0 {
		log.Info().Int64("count", count).Msg("Cleaned up expired reset tokens")
	}
}

func (s *Server) stopMaintenanceTasks() {
	if s.stopTasks != nil {
		s.stopTasks()
		s.stopTasks = nil
	}
}
