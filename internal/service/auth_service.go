package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matrizrfm/auth-api/internal/auth"
	"github.com/matrizrfm/auth-api/internal/constants"
	"github.com/matrizrfm/auth-api/internal/metrics"
	"github.com/matrizrfm/auth-api/internal/models"
	"github.com/matrizrfm/auth-api/internal/repository"
	"github.com/matrizrfm/auth-api/internal/utils"
)

// AuthService handles registration, login, the password reset flow and
// session verification
type AuthService struct {
	userRepo       repository.UserRepository
	resetTokenRepo repository.ResetTokenRepository
	tokens         auth.SessionTokens
	mailer         PasswordResetMailer
	passwordCfg    *auth.PasswordConfig
	resetExpiry    time.Duration
	metrics        *metrics.Metrics
	now            func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	resetTokenRepo repository.ResetTokenRepository,
	tokens auth.SessionTokens,
	mailer PasswordResetMailer,
	passwordCfg *auth.PasswordConfig,
	resetExpiry time.Duration,
	m *metrics.Metrics,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		resetTokenRepo: resetTokenRepo,
		tokens:         tokens,
		mailer:         mailer,
		passwordCfg:    passwordCfg,
		resetExpiry:    resetExpiry,
		metrics:        m,
		now:            time.Now,
	}
}

// WithClock replaces the clock used for reset token expiry
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// clock returns the current instant in UTC. Reset token timestamps are
// always stored in UTC.
func (s *AuthService) clock() time.Time {
	return s.now().UTC()
}

// Register creates a new account and signs the user in
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.Session, error) {
	name = strings.TrimSpace(name)
	email = utils.NormalizeEmail(email)

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.metrics.ObserveAuth(constants.OpRegister, constants.OutcomeError)
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		s.metrics.ObserveAuth(constants.OpRegister, constants.OutcomeRejected)
		utils.LogAuth(constants.OpRegister, 0, false, "email in use")
		return nil, utils.NewEmailInUseError()
	}

	passwordHash, salt, err := auth.HashPassword(password, s.passwordCfg)
	if err != nil {
		s.metrics.ObserveAuth(constants.OpRegister, constants.OutcomeError)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(name, email)
	user.PasswordHash = passwordHash
	user.Salt = salt

	// The unique constraint still decides races between concurrent registrations
	if err := s.userRepo.Create(ctx, user); err != nil {
		if utils.IsDuplicateError(err) {
			s.metrics.ObserveAuth(constants.OpRegister, constants.OutcomeRejected)
			return nil, utils.NewEmailInUseError()
		}
		s.metrics.ObserveAuth(constants.OpRegister, constants.OutcomeError)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := s.issueSession(user)
	if err != nil {
		s.metrics.ObserveAuth(constants.OpRegister, constants.OutcomeError)
		return nil, err
	}

	s.metrics.ObserveAuth(constants.OpRegister, constants.OutcomeSuccess)
	utils.LogAuth(constants.OpRegister, user.ID, true, "")

	return session, nil
}

// Login checks credentials and issues a session.
// Unknown email and wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = utils.NormalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			auth.BurnPasswordCheck(password, s.passwordCfg)
			s.metrics.ObserveAuth(constants.OpLogin, constants.OutcomeFailure)
			utils.LogAuth(constants.OpLogin, 0, false, "unknown email")
			return nil, utils.NewInvalidCredentialsError()
		}
		s.metrics.ObserveAuth(constants.OpLogin, constants.OutcomeError)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash, user.Salt, s.passwordCfg)
	if err != nil {
		s.metrics.ObserveAuth(constants.OpLogin, constants.OutcomeError)
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		s.metrics.ObserveAuth(constants.OpLogin, constants.OutcomeFailure)
		utils.LogAuth(constants.OpLogin, user.ID, false, "invalid password")
		return nil, utils.NewInvalidCredentialsError()
	}

	session, err := s.issueSession(user)
	if err != nil {
		s.metrics.ObserveAuth(constants.OpLogin, constants.OutcomeError)
		return nil, err
	}

	s.metrics.ObserveAuth(constants.OpLogin, constants.OutcomeSuccess)
	utils.LogAuth(constants.OpLogin, user.ID, true, "")

	return session, nil
}

// ForgotPassword issues a reset token for the account behind email and mails it.
// It never reports whether the account exists: unknown emails, store
// failures and mail failures are logged and swallowed. A token whose email
// failed to send stays valid, so the user can simply ask again.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = utils.NormalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			s.metrics.ObserveAuth(constants.OpForgotPassword, constants.OutcomeSkipped)
			utils.LogAuth(constants.OpForgotPassword, 0, false, "unknown email")
			return nil
		}
		s.metrics.ObserveAuth(constants.OpForgotPassword, constants.OutcomeError)
		log.Error().Err(err).Msg("Failed to look up user for password reset")
		return nil
	}

	plain, hash, err := auth.GenerateResetToken()
	if err != nil {
		s.metrics.ObserveAuth(constants.OpForgotPassword, constants.OutcomeError)
		log.Error().Err(err).Int64(constants.UserIDContextKey, user.ID).Msg("Failed to generate reset token")
		return nil
	}

	token := models.NewResetToken(user.ID, hash, s.clock(), s.resetExpiry)
	if err := s.resetTokenRepo.Replace(ctx, token); err != nil {
		s.metrics.ObserveAuth(constants.OpForgotPassword, constants.OutcomeError)
		log.Error().Err(err).Int64(constants.UserIDContextKey, user.ID).Msg("Failed to store reset token")
		return nil
	}

	if err := s.mailer.SendPasswordResetEmail(ctx, user, plain); err != nil {
		s.metrics.ObserveAuth(constants.OpForgotPassword, constants.OutcomeError)
		log.Error().Err(err).Int64(constants.UserIDContextKey, user.ID).Msg("Reset token stored but email delivery failed")
		return nil
	}

	s.metrics.ObserveAuth(constants.OpForgotPassword, constants.OutcomeSuccess)
	utils.LogAuth(constants.OpForgotPassword, user.ID, true, "")

	return nil
}

// ResetPassword consumes a reset token and sets a new password.
// Expired tokens are deleted on sight. Claiming the token and writing the
// password commit together: two concurrent resets cannot both win, and a
// failed write leaves the token usable.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	resetToken, err := s.resetTokenRepo.GetByTokenHash(ctx, auth.HashResetToken(token))
	if err != nil {
		if utils.IsNotFoundError(err) {
			s.metrics.ObserveAuth(constants.OpResetPassword, constants.OutcomeRejected)
			utils.LogAuth(constants.OpResetPassword, 0, false, "unknown token")
			return utils.NewInvalidResetTokenError()
		}
		s.metrics.ObserveAuth(constants.OpResetPassword, constants.OutcomeError)
		return fmt.Errorf("failed to get reset token: %w", err)
	}

	if resetToken.IsExpired(s.clock()) {
		if _, err := s.resetTokenRepo.Delete(ctx, resetToken.ID); err != nil {
			log.Error().Err(err).Int64("token_id", resetToken.ID).Msg("Failed to delete expired reset token")
		}
		s.metrics.ObserveAuth(constants.OpResetPassword, constants.OutcomeRejected)
		utils.LogAuth(constants.OpResetPassword, resetToken.UserID, false, "expired token")
		return utils.NewExpiredResetTokenError()
	}

	user, err := s.userRepo.GetByID(ctx, resetToken.UserID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			s.metrics.ObserveAuth(constants.OpResetPassword, constants.OutcomeRejected)
			return utils.NewUserNotFoundError()
		}
		s.metrics.ObserveAuth(constants.OpResetPassword, constants.OutcomeError)
		return fmt.Errorf("failed to get user: %w", err)
	}

	passwordHash, salt, err := auth.HashPassword(password, s.passwordCfg)
	if err != nil {
		s.metrics.ObserveAuth(constants.OpResetPassword, constants.OutcomeError)
		return fmt.Errorf("failed to hash password: %w", err)
	}

	claimed, err := s.resetTokenRepo.Consume(ctx, resetToken, passwordHash, salt)
	if err != nil {
		s.metrics.ObserveAuth(constants.OpResetPassword, constants.OutcomeError)
		if utils.IsNotFoundError(err) {
			return utils.NewUserNotFoundError()
		}
		return fmt.Errorf("failed to change password: %w", err)
	}
	if !claimed {
		s.metrics.ObserveAuth(constants.OpResetPassword, constants.OutcomeRejected)
		utils.LogAuth(constants.OpResetPassword, user.ID, false, "token already used")
		return utils.NewInvalidResetTokenError()
	}

	s.metrics.ObserveAuth(constants.OpResetPassword, constants.OutcomeSuccess)
	utils.LogAuth(constants.OpResetPassword, user.ID, true, "")

	return nil
}

// Verify validates a session token and returns the user it belongs to
func (s *AuthService) Verify(ctx context.Context, sessionToken string) (*models.UserSummary, error) {
	if sessionToken == "" {
		s.metrics.ObserveAuth(constants.OpVerifyToken, constants.OutcomeRejected)
		return nil, utils.NewMissingTokenError()
	}

	claims, err := s.tokens.ValidateToken(sessionToken)
	if err != nil {
		s.metrics.ObserveAuth(constants.OpVerifyToken, constants.OutcomeRejected)
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, utils.NewInvalidTokenError()
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			s.metrics.ObserveAuth(constants.OpVerifyToken, constants.OutcomeRejected)
			utils.LogAuth(constants.OpVerifyToken, claims.UserID, false, "user no longer exists")
			return nil, utils.NewInvalidTokenError()
		}
		s.metrics.ObserveAuth(constants.OpVerifyToken, constants.OutcomeError)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	s.metrics.ObserveAuth(constants.OpVerifyToken, constants.OutcomeSuccess)
	summary := user.Summary()
	return &summary, nil
}

// CurrentUser returns the user behind an already authenticated request
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.UserSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return nil, utils.NewUserNotFoundError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	summary := user.Summary()
	return &summary, nil
}

// CleanupExpiredResetTokens removes reset tokens that are past their expiry
func (s *AuthService) CleanupExpiredResetTokens(ctx context.Context) (int64, error) {
	removed, err := s.resetTokenRepo.DeleteExpired(ctx, s.clock())
	if err != nil {
		return 0, fmt.Errorf("failed to clean up reset tokens: %w", err)
	}
	s.metrics.ObserveSweep(removed)
	return removed, nil
}

func (s *AuthService) issueSession(user *models.User) (*models.Session, error) {
	token, expiresAt, err := s.tokens.GenerateSessionToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	return models.NewSession(token, expiresAt, user), nil
}
