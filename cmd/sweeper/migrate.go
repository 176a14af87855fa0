package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/sweeper/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		url, err := cfg.Database.ConnString()
		if err != nil {
			return err
		}
		migrator, err := database.Migrate(url, migrations)
		if err != nil {
			return err
		}
		defer migrator.Close()

		version, dirty, err := migrator.Version()
		if err != nil {
			log.WithError(err).Error("failed to check migration version")
			return err
		}
		log.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Info("migration successful")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
