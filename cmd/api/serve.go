package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/places-service/internal/auth"
	"github.com/Dan9191/places-service/internal/config"
	"github.com/Dan9191/places-service/internal/handler"
	"github.com/Dan9191/places-service/internal/logger"
	"github.com/Dan9191/places-service/internal/metrics"
	"github.com/Dan9191/places-service/internal/repository"
	"github.com/Dan9191/places-service/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	if cfg.AutoMigrate {
		if err := repository.Migrate(ctx, cfg.DBDriver, cfg.DBConn); err != nil {
			return err
		}
		log.Infof("Database schema is up to date (%s)", cfg.DBDriver)
	}
	db, err := repository.Open(ctx, cfg.DBDriver, cfg.DBConn)
	if err != nil {
		return err
	}
	defer db.Close()

	// Initialize layers
	repo := repository.NewRepository(db, cfg.DBDriver)
	hasher, err := auth.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	tokens := auth.NewTokenIssuer([]byte(cfg.JWTKey), cfg.JWTIssuer, cfg.JWTAudience, auth.WithTTL(cfg.TokenTTL))
	svc := service.NewService(repo, repo, hasher, tokens)
	h := handler.NewHandler(svc, repo)

	// Setup router
	router := handler.NewRouter(h, handler.RouterConfig{
		Verifier:       tokens,
		Logger:         log,
		Metrics:        metrics.New(),
		AllowedOrigins: cfg.AllowedOrigins(),
	})

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
