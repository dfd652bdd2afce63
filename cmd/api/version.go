package main

import (
	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("Matriz RFM Auth API\nVersion: %s\nCommit: %s\nBuild Date: %s\n", version, commit, buildDate)
			return nil
		},
	}
}
