package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/matrizrfm/auth-api/internal/constants"
	"github.com/matrizrfm/auth-api/internal/database"
	"github.com/matrizrfm/auth-api/migrations"
)

var errMemoryDriver = errors.New("the memory driver has no schema; set database.driver to postgres")

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Create the users and reset_tokens tables if they do not exist yet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, statusOnly)
		},
	}

	cmd.Flags().BoolVar(&statusOnly, "status", false, "only report which migrations are applied")

	return cmd
}

func runMigrate(cmd *cobra.Command, statusOnly bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.IsMemory() {
		return errMemoryDriver
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), constants.DBConnectionTimeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	migrator := migrations.NewMigrator(db)

	if !statusOnly {
		cmd.Println("Running migrations...")
		if err := migrator.RunMigrations(ctx); err != nil {
			return err
		}
	}

	statuses, err := migrator.Status(ctx)
	if err != nil {
		return err
	}
	for _, st := range statuses {
		state := "pending"
		if st.Applied {
			state = "applied"
		}
		cmd.Printf("%-28s %-8s %s\n", st.Name, state, st.Relation)
	}

	if !statusOnly {
		cmd.Println("Migrations completed successfully")
	}
	return nil
}
