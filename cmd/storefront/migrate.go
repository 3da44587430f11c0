package main

import (
	"time"

	"github.com/fekuna/omnipos-storefront/config"
	"github.com/fekuna/omnipos-storefront/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the Products and Receipts collections when missing",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.LoadEnv()
	log := newLogger(cfg)
	defer log.Sync()

	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(cmd.Context(), db); err != nil {
		return err
	}
	log.Info("schema up to date")
	return nil
}

func secondsToDuration(n int) time.Duration {
	return time.Duration(n) * time.Second
}
