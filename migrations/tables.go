package migrations

import (
	"context"
	"database/sql"

	"github.com/matrizrfm/auth-api/internal/constants"
)

// createUsersTable creates the users table.
// The email constraint name is matched when mapping duplicate registrations.
func createUsersTable() Migration {
	return Migration{
		Name:        "create_users_table",
		Description: "Creates the users table",
		TableName:   constants.TableUsers,
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS users (
					user_id BIGSERIAL PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					email VARCHAR(255) NOT NULL,
					password_hash VARCHAR(255) NOT NULL,
					salt VARCHAR(255) NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT users_email_key UNIQUE (email)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createResetTokensTable creates the reset_tokens table.
// At most one row per user; tokens go away with their user.
func createResetTokensTable() Migration {
	return Migration{
		Name:        "create_reset_tokens_table",
		Description: "Creates the reset_tokens table",
		TableName:   constants.TableResetTokens,
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS reset_tokens (
					id BIGSERIAL PRIMARY KEY,
					user_id BIGINT NOT NULL,
					token_hash VARCHAR(64) NOT NULL,
					expires_at TIMESTAMPTZ NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_reset_tokens_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
					CONSTRAINT reset_tokens_user_id_key UNIQUE (user_id),
					CONSTRAINT reset_tokens_token_hash_key UNIQUE (token_hash)
				)
			`
			if _, err := tx.ExecContext(ctx, query); err != nil {
				return err
			}

			_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_reset_tokens_expires_at ON reset_tokens(expires_at)`)
			return err
		},
	}
}
