package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "api",
		Short:         "Places backend: user accounts and owner scoped place records",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or upgrade the database schema and exit",
			RunE:  runMigrate,
		},
	)
	return root
}
