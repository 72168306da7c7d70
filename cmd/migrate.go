package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cv-sync/internal/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Run: func(_ *cobra.Command, _ []string) {
		migrate()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrate() {
	ctx := context.Background()

	logger := mustLogger()
	defer logger.Sync() //nolint:errcheck

	config := mustConfig(logger)

	// The vector type may not exist yet, so it is not registered on these connections.
	pool, err := connectDatabase(ctx, config.Database, true)
	if err != nil {
		logger.Fatal("connecting to the database", zap.Error(err))
	}
	defer pool.Close()

	applied, err := postgres.New(pool, logger).Migrate(ctx)
	if err != nil {
		logger.Fatal("migrating", zap.Error(err), zap.Strings("applied", applied))
	}

	if len(applied) == 0 {
		logger.Info("schema is up to date")
		return
	}
	logger.Info("migrations applied", zap.Strings("applied", applied))
}
