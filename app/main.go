package main

import (
	"orphancare/config"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log *logrus.Logger

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file loaded, using process environment")
	}

	log = config.GetLogrusInstance()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "orphancare",
		Short:         "Orphan care record service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newReconcileCmd())
	return root
}
