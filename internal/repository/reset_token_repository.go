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

// ResetTokenRepository stores password reset tokens by their hash.
// At most one token exists per user.
type ResetTokenRepository interface {
	// Replace removes any token the user holds and stores token in one atomic step.
	Replace(ctx context.Context, token *models.ResetToken) error
	// GetByTokenHash returns the token with the given hash, expired or not.
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.ResetToken, error)
	// Delete removes a token and reports whether this call removed it.
	Delete(ctx context.Context, id int64) (bool, error)
	// Consume deletes the token and sets its owner's password in one atomic step.
	// It reports false when the token was already used. On error neither change is kept.
	Consume(ctx context.Context, token *models.ResetToken, passwordHash, salt string) (bool, error)
	// DeleteExpired removes every token that expired before the given instant.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// PostgresResetTokenRepository is a PostgreSQL implementation of ResetTokenRepository
type PostgresResetTokenRepository struct {
	db *database.Pool
}

// NewResetTokenRepository creates a new ResetTokenRepository
func NewResetTokenRepository(db *database.Pool) ResetTokenRepository {
	return &PostgresResetTokenRepository{db: db}
}

// Replace locks the user row, deletes the user's current token and inserts the new one.
// Concurrent calls for the same user serialize on the row lock.
func (r *PostgresResetTokenRepository) Replace(ctx context.Context, token *models.ResetToken) error {
	startTime := time.Now()

	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		lockQuery := `SELECT user_id FROM users WHERE user_id = $1 FOR UPDATE`
		var lockedID int64
		err := tx.QueryRowContext(ctx, lockQuery, token.UserID).Scan(&lockedID)
		utils.LogDBQuery(lockQuery, []interface{}{token.UserID}, time.Since(startTime), err)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return utils.NewNotFoundError("User", token.UserID)
			}
			return fmt.Errorf("failed to lock user: %w", err)
		}

		deleteQuery := `DELETE FROM reset_tokens WHERE user_id = $1`
		result, err := tx.ExecContext(ctx, deleteQuery, token.UserID)
		utils.LogDBQuery(deleteQuery, []interface{}{token.UserID}, time.Since(startTime), err)
		if err != nil {
			return fmt.Errorf("failed to delete previous reset token: %w", err)
		}
		replaced, _ := result.RowsAffected()

		insertQuery := `
            INSERT INTO reset_tokens (user_id, token_hash, expires_at, created_at)
            VALUES ($1, $2, $3, $4)
            RETURNING id
        `
		err = tx.QueryRowContext(ctx, insertQuery, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt).
			Scan(&token.ID)
		utils.LogDBQuery(
			insertQuery,
			[]interface{}{token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt},
			time.Since(startTime),
			err,
		)
		if err != nil {
			return fmt.Errorf("failed to insert reset token: %w", err)
		}

		log.Debug().
			Int64(constants.UserIDContextKey, token.UserID).
			Int64("replaced", replaced).
			Msg("Reset token stored")

		return nil
	})
}

// GetByTokenHash retrieves a reset token by its hash
func (r *PostgresResetTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.ResetToken, error) {
	startTime := time.Now()

	query := `
        SELECT id, user_id, token_hash, expires_at, created_at
        FROM reset_tokens
        WHERE token_hash = $1
    `

	token := &models.ResetToken{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.CreatedAt,
	)

	utils.LogDBQuery(query, []interface{}{tokenHash}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("ResetToken", "hash")
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}

	return token, nil
}

// Delete removes a reset token by ID
func (r *PostgresResetTokenRepository) Delete(ctx context.Context, id int64) (bool, error) {
	startTime := time.Now()
	query := `DELETE FROM reset_tokens WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)

	utils.LogDBQuery(query, []interface{}{id}, time.Since(startTime), err)

	if err != nil {
		return false, fmt.Errorf("failed to delete reset token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Consume claims the token by deleting it and writes the new password hash
// in the same transaction. A failed password write rolls the delete back.
func (r *PostgresResetTokenRepository) Consume(ctx context.Context, token *models.ResetToken, passwordHash, salt string) (bool, error) {
	startTime := time.Now()
	claimed := false

	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		deleteQuery := `DELETE FROM reset_tokens WHERE id = $1`
		result, err := tx.ExecContext(ctx, deleteQuery, token.ID)
		utils.LogDBQuery(deleteQuery, []interface{}{token.ID}, time.Since(startTime), err)
		if err != nil {
			return fmt.Errorf("failed to claim reset token: %w", err)
		}
		deleted, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if deleted == 0 {
			return nil
		}

		updateQuery := `
            UPDATE users
            SET password_hash = $1, salt = $2, updated_at = $3
            WHERE user_id = $4
        `
		now := time.Now().UTC()
		result, err = tx.ExecContext(ctx, updateQuery, passwordHash, salt, now, token.UserID)
		utils.LogDBQuery(
			updateQuery,
			[]interface{}{passwordHash, salt, now, token.UserID},
			time.Since(startTime),
			err,
		)
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		updated, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if updated == 0 {
			return utils.NewNotFoundError("User", token.UserID)
		}

		claimed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if claimed {
		log.Info().
			Int64(constants.UserIDContextKey, token.UserID).
			Msg("User password changed")
	}

	return claimed, nil
}

// DeleteExpired removes all reset tokens that expired before the given time
func (r *PostgresResetTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	startTime := time.Now()
	query := `DELETE FROM reset_tokens WHERE expires_at < $1`
	before = before.UTC()

	result, err := r.db.ExecContext(ctx, query, before)

	utils.LogDBQuery(query, []interface{}{before}, time.Since(startTime), err)

	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected > 0 {
		log.Info().Int64("count", rowsAffected).Msg("Deleted expired reset tokens")
	}

	return rowsAffected, nil
}
