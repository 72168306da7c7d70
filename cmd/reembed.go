package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/cv-sync/internal/scheduler"
)

var reembedCmd = &cobra.Command{
	Use:   "reembed",
	Short: "Regenerate missing or stale resume embeddings once",
	Run: func(cmd *cobra.Command, _ []string) {
		reembed(cmd)
	},
}

func init() {
	rootCmd.AddCommand(reembedCmd)

	reembedCmd.Flags().String("id", "", "refresh a single resume instead of all of them")
}

func reembed(cmd *cobra.Command) {
	ctx := context.Background()

	logger := mustLogger()
	defer logger.Sync() //nolint:errcheck

	config := mustConfig(logger)

	d, err := buildDeps(ctx, config, logger, true)
	if err != nil {
		logger.Fatal("initializing dependencies", zap.Error(err))
	}
	defer d.Close()

	if id, _ := cmd.Flags().GetString("id"); id != "" {
		refreshed, err := d.resumes.RefreshEmbedding(ctx, id)
		if err != nil {
			logger.Fatal("refreshing embedding", zap.Error(err), zap.String("resume_id", id))
		}
		logger.Info("done", zap.String("resume_id", id), zap.Bool("refreshed", refreshed))
		return
	}

	stats := scheduler.New(d.resumes, config.Reembed.IntervalHours, logger).Sweep(ctx)
	if stats.Failed > 0 {
		logger.Warn("some resumes were not re-embedded", zap.Int("failed", stats.Failed))
	}
}
