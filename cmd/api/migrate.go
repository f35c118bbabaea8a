package main

import (
	"fmt"

	"github.com/Dan9191/places-service/internal/config"
	"github.com/Dan9191/places-service/internal/logger"
	"github.com/Dan9191/places-service/internal/repository"
	"github.com/spf13/cobra"
)

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	if err := repository.Migrate(cmd.Context(), cfg.DBDriver, cfg.DBConn); err != nil {
		return err
	}
	log.Infof("Database schema is up to date (%s)", cfg.DBDriver)
	return nil
}
