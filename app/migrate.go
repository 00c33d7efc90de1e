package main

import (
	"orphancare/config"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and seed the default admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.BootDB()
			if err != nil {
				log.Fatalf("Failed to boot DB: %v", err)
			}
			defer config.CloseDB(db)

			if err := config.Migrate(db); err != nil {
				return err
			}
			if err := config.SeedAdmin(db, config.GetAdminSeed()); err != nil {
				return err
			}
			log.Info("Migration complete")
			return nil
		},
	}
}
