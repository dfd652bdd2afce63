package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matrizrfm/auth-api/internal/auth"
	"github.com/matrizrfm/auth-api/internal/database"
	"github.com/matrizrfm/auth-api/internal/repository"
	"github.com/matrizrfm/auth-api/migrations"
	"github.com/matrizrfm/auth-api/scripts"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout  time.Duration
	name     string
	email    string
	password string
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}
	defaults := scripts.DefaultSeedUser()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the demo user",
		Long: `Creates a user account for local development and demos.
This command is idempotent - an existing email is left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().StringVar(&cfg.name, "name", defaults.Name, "name of the seeded user")
	cmd.Flags().StringVar(&cfg.email, "email", defaults.Email, "email of the seeded user")
	cmd.Flags().StringVar(&cfg.password, "password", defaults.Password, "password of the seeded user")

	return cmd
}

func runSeed(cmd *cobra.Command, seedCfg *seedConfig) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.IsMemory() {
		return errMemoryDriver
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), seedCfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	cmd.Println("Running migrations...")
	if err := migrations.NewMigrator(db).RunMigrations(ctx); err != nil {
		return err
	}

	seeder := scripts.NewSeeder(repository.NewUserRepository(db), auth.ConfigFromAppConfig(cfg))
	created, err := seeder.SeedDatabase(ctx, scripts.SeedUser{
		Name:     seedCfg.name,
		Email:    seedCfg.email,
		Password: seedCfg.password,
	})
	if err != nil {
		return err
	}

	if created == 0 {
		cmd.Printf("User %s already exists\n", seedCfg.email)
		return nil
	}
	cmd.Printf("Created user %s\n", seedCfg.email)
	return nil
}
