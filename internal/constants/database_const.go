// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines table, column and constraint names used by
// the repositories and the migrator. Keeping them here lets SQL and error
// mapping agree on the same identifiers.
package constants

// Table Names define the names of database tables used in the application.
const (
	// TableUsers is the name of the table storing user account information.
	TableUsers = "users"

	// TableResetTokens is the name of the table storing password reset tokens.
	TableResetTokens = "reset_tokens"

	// TableMigrations is the name of the table tracking executed schema migrations.
	TableMigrations = "migrations"
)

// Common Column Names define frequently used database column names.
const (
	// ColumnID is the generic primary key column name.
	ColumnID = "id"

	// ColumnUserID is the column name for user identifier foreign keys.
	ColumnUserID = "user_id"

	// ColumnName is the column name for display names.
	ColumnName = "name"

	// ColumnEmail is the column name for user email addresses.
	ColumnEmail = "email"

	// ColumnPasswordHash is the column name for hashed passwords.
	ColumnPasswordHash = "password_hash"

	// ColumnSalt is the column name for password salt values.
	ColumnSalt = "salt"

	// ColumnTokenHash is the column name for hashed reset tokens.
	ColumnTokenHash = "token_hash"

	// ColumnExpiresAt is the column name for expiration timestamps.
	ColumnExpiresAt = "expires_at"

	// ColumnCreatedAt is the column name for creation timestamps.
	ColumnCreatedAt = "created_at"
)

// Constraint and Index Names define named schema objects referenced from code.
const (
	// ConstraintUsersEmail is the unique constraint on users.email.
	ConstraintUsersEmail = "users_email_key"

	// ConstraintResetTokensUser is the unique constraint allowing one token per user.
	ConstraintResetTokensUser = "reset_tokens_user_id_key"

	// IndexResetTokensExpiresAt is the index used by the expired token sweep.
	IndexResetTokensExpiresAt = "idx_reset_tokens_expires_at"
)

// Database Schema Names define the names of database schemas.
const (
	// SchemaInformation is the name of the PostgreSQL information schema.
	SchemaInformation = "information_schema"
)

// Database drivers accepted by the configuration.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// PostgreSQL connection string parameters
const (
	PostgresConnectTimeout = "connect_timeout=15"
	DefaultPostgresSSLMode = "disable"
)
