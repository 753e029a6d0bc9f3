package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mealmajor/mealmajor/backend/config"
	"github.com/mealmajor/mealmajor/backend/internal/database"
	"github.com/mealmajor/mealmajor/backend/internal/events"
	"github.com/mealmajor/mealmajor/backend/internal/logging"
	"github.com/mealmajor/mealmajor/backend/internal/server"
)

var shutdownTimeout time.Duration

var rootCmd = &cobra.Command{
	Use:           "api",
	Short:         "Run the MealMajor HTTP API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

func init() {
	rootCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Grace period for in-flight requests")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment.IsProduction(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := config.ValidateConfig(cfg); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck

	// PostgreSQL schemas are managed by cmd/migrate
	if cfg.DBDriver == config.DriverSQLite {
		if err := database.RunMigrations(cmd.Context(), db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	var deps server.Dependencies

	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Warn("redis unavailable, rate limiting and option cache disabled", zap.Error(err))
	} else {
		defer redisClient.Close()
		deps.Redis = redisClient
	}

	if cfg.RabbitMQURL != "" {
		publisher, err := events.NewRabbitPublisher(cfg.RabbitMQURL, events.RecipeQueue, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, recipe events disabled", zap.Error(err))
		} else {
			defer publisher.Close() //nolint:errcheck
			deps.Publisher = publisher
		}
	}

	srv := server.New(cfg, db, deps, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
