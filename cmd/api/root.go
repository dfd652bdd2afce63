package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/matrizrfm/auth-api/internal/config"
	"github.com/matrizrfm/auth-api/internal/utils"
)

const defaultConfigPath = "./configs/config.yaml"

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command. Without a subcommand it serves the API.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth-api",
		Short: "Matriz RFM authentication API",
		Long: `Email and password authentication for Matriz RFM: registration,
login, password reset by email and session token verification.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", defaultConfigPath, "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// loadConfig reads the config file, applies the build version and
// initializes the logger and validator.
func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if version != "dev" {
		cfg.App.Version = version
	}

	utils.InitLogger(cfg)
	utils.InitValidator()

	log.Info().
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Str("driver", cfg.Database.Driver).
		Msg("Configuration loaded")

	return cfg, nil
}
