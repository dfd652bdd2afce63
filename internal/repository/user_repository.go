package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matrizrfm/auth-api/internal/constants"
	"github.com/matrizrfm/auth-api/internal/database"
	"github.com/matrizrfm/auth-api/internal/models"
	"github.com/matrizrfm/auth-api/internal/utils"
)

// UserRepository defines methods for interacting with user data.
// Emails passed in are expected to be normalized already.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// PostgresUserRepository is a PostgreSQL implementation of UserRepository
type PostgresUserRepository struct {
	db *database.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Pool) UserRepository {
	return &PostgresUserRepository{
		db: db,
	}
}

const selectUserColumns = `SELECT user_id, name, email, password_hash, salt, created_at, updated_at FROM users`

// Create adds a new user to the database.
// A duplicate email is reported as an email-in-use AppError.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
        INSERT INTO users (name, email, password_hash, salt, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING user_id
    `

	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Salt,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	utils.LogDBQuery(
		query,
		[]interface{}{user.Name, user.Email, user.PasswordHash, user.Salt, user.CreatedAt, user.UpdatedAt},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if utils.IsUniqueViolation(err, constants.ConstraintUsersEmail) {
			return utils.NewEmailInUseError()
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().
		Int64(constants.UserIDContextKey, user.ID).
		Msg("User created")

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	startTime := time.Now()
	query := selectUserColumns + ` WHERE user_id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", id)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	startTime := time.Now()
	query := selectUserColumns + ` WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))

	utils.LogDBQuery(query, []interface{}{email}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("User", "email")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// ExistsByEmail checks if a user with the given email exists
func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	startTime := time.Now()
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)

	utils.LogDBQuery(query, []interface{}{email}, time.Since(startTime), err)

	if err != nil {
		return false, fmt.Errorf("failed to check if email exists: %w", err)
	}

	return exists, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Salt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
