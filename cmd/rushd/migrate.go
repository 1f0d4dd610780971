package main

import (
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-rush/internal/config"
	"github.com/vancomm/minesweeper-rush/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(""); err != nil {
			return err
		}
		dbURL, err := config.DbURL()
		if err != nil {
			return err
		}
		return database.Migrate(dbURL, migrations)
	},
}
