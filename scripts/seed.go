// Package scripts provides utility scripts for database and system management.
//
// This package implements development seeding: it creates a demo account so a
// fresh environment can be logged into right away. Seeding is idempotent and
// goes through the repositories, so it works against Postgres and the
// in-memory store alike.
package scripts

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matrizrfm/auth-api/internal/auth"
	"github.com/matrizrfm/auth-api/internal/constants"
	"github.com/matrizrfm/auth-api/internal/models"
	"github.com/matrizrfm/auth-api/internal/repository"
	"github.com/matrizrfm/auth-api/internal/utils"
)

// SeedUser describes an account to create.
type SeedUser struct {
	Name     string
	Email    string
	Password string
}

// DefaultSeedUser returns the demo account.
func DefaultSeedUser() SeedUser {
	return SeedUser{
		Name:     constants.SeedUserName,
		Email:    constants.SeedUserEmail,
		Password: constants.SeedUserPassword,
	}
}

// Seeder handles database seeding.
type Seeder struct {
	users       repository.UserRepository
	passwordCfg *auth.PasswordConfig
}

// NewSeeder creates a new seeder.
//
// Parameters:
//   - users: The user store to seed
//   - passwordCfg: Hashing parameters for seeded passwords
//
// Returns:
//   - *Seeder: A configured seeder
func NewSeeder(users repository.UserRepository, passwordCfg *auth.PasswordConfig) *Seeder {
	return &Seeder{
		users:       users,
		passwordCfg: passwordCfg,
	}
}

// SeedDatabase creates every given account that does not exist yet.
//
// Returns:
//   - int: How many accounts were created
//   - error: Any error encountered during seeding, nil if successful
func (s *Seeder) SeedDatabase(ctx context.Context, seeds ...SeedUser) (int, error) {
	log.Info().Int("accounts", len(seeds)).Msg("Seeding database")
	startTime := time.Now()

	created := 0
	for _, seed := range seeds {
		ok, err := s.seedUser(ctx, seed)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	log.Info().
		Int("created", created).
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return created, nil
}

func (s *Seeder) seedUser(ctx context.Context, seed SeedUser) (bool, error) {
	email := utils.NormalizeEmail(seed.Email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to check seed user: %w", err)
	}
	if exists {
		log.Debug().Str("email", utils.MaskEmail(email)).Msg("Seed user already exists")
		return false, nil
	}

	passwordHash, salt, err := auth.HashPassword(seed.Password, s.passwordCfg)
	if err != nil {
		return false, fmt.Errorf("failed to hash seed password: %w", err)
	}

	user := models.NewUser(seed.Name, email)
	user.PasswordHash = passwordHash
	user.Salt = salt

	if err := s.users.Create(ctx, user); err != nil {
		return false, fmt.Errorf("failed to create seed user: %w", err)
	}

	log.Info().Int64(constants.UserIDContextKey, user.ID).Msg("Seed user created")
	return true, nil
}
