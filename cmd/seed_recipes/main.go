package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mealmajor/mealmajor/backend/config"
	"github.com/mealmajor/mealmajor/backend/internal/cache"
	"github.com/mealmajor/mealmajor/backend/internal/database"
	"github.com/mealmajor/mealmajor/backend/internal/logging"
	"github.com/mealmajor/mealmajor/backend/internal/seed"
	"github.com/mealmajor/mealmajor/backend/internal/service"
	"github.com/mealmajor/mealmajor/backend/internal/types"
)

var (
	seedFile string
	timeout  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "seed_recipes",
	Short: "Load the default recipes into the database",
	Long: `Upsert the default recipe set under the kitchen account.

Without --file the built-in recipes are used. Files ending in .json are read
as JSON; .yaml and .yml files as YAML. The whole run is one transaction.`,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().StringVarP(&seedFile, "file", "f", "", "JSON or YAML file with recipes")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Abort the seed after this long")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Environment.IsProduction(), cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	var recipes []types.SeedRecipe
	if seedFile != "" {
		recipes, err = seed.LoadFile(seedFile)
	} else {
		recipes, err = seed.DefaultRecipes()
	}
	if err != nil {
		return err
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if cfg.DBDriver == config.DriverSQLite {
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	var optionCache service.OptionCache
	redisClient, err := database.NewRedisClient(cfg, logger)
	if err != nil {
		logger.Warn("redis unavailable, cached option catalogs left to expire", zap.Error(err))
	} else {
		defer redisClient.Close()
		optionCache = cache.NewRedisCache(redisClient, cache.KeyPrefix)
	}

	result, err := service.NewSeedService(db, optionCache, logger).Seed(ctx, recipes)
	if err != nil {
		logger.Error("seed failed", zap.Error(err))
		return err
	}

	fmt.Printf("Seeded %d recipes for %s (%d created, %d updated).\n",
		result.Created+result.Updated, service.KitchenEmail, result.Created, result.Updated)
	return nil
}
