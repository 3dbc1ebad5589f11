package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"cohorts/internal/config"
	"cohorts/internal/logger"
	"cohorts/internal/repository"
	"cohorts/internal/service"
)

var (
	fixturesFile string
	resetStore   bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load cohorts and students from a fixture file",
	Long: `Load cohorts and students from a YAML fixture file.

Records are created through the same services the API uses, so validation
and uniqueness rules apply. Cohorts whose slug and students whose email
already exist are skipped. Students reference cohorts by cohortSlug.`,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().StringVarP(&fixturesFile, "file", "f", "cmd/seed/fixtures.yaml", "fixture file to load")
	rootCmd.Flags().BoolVar(&resetStore, "reset", false, "drop all data before seeding")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true, Output: cmd.ErrOrStderr()})

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL (or MONGODB_URI) is required")
	}

	fixtures, err := LoadFixtures(fixturesFile)
	if err != nil {
		return err
	}
	appLogger.Info().
		Str("file", fixturesFile).
		Int("cohorts", len(fixtures.Cohorts)).
		Int("students", len(fixtures.Students)).
		Msg("fixtures loaded")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	repos, err := repository.Open(ctx, cfg.StoreDriver, cfg.DatabaseURL, cfg.MongoDatabase, resetStore || cfg.ResetDB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := repos.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	seeder := NewSeeder(
		service.NewCohortService(repos.Cohorts),
		service.NewStudentService(repos.Students, repos.Cohorts),
	)
	result, err := seeder.Seed(ctx, fixtures)
	if err != nil {
		return err
	}

	appLogger.Info().
		Int("cohorts_created", result.CohortsCreated).
		Int("cohorts_skipped", result.CohortsSkipped).
		Int("students_created", result.StudentsCreated).
		Int("students_skipped", result.StudentsSkipped).
		Msg("seed completed")
	return nil
}
