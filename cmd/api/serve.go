package main

import (
	"github.com/spf13/cobra"

	"github.com/matrizrfm/auth-api/internal/server"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Connect to the configured store, run pending migrations and serve
the API until SIGINT or SIGTERM.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srv, err := server.NewServer(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	return srv.Start()
}
