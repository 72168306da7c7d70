package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-sync/internal/api"
	"github.com/spigell/cv-sync/internal/importer"
	"github.com/spigell/cv-sync/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resume and job HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (overrides server.port)")
	serveCmd.Flags().Bool("reembed", false, "run the periodic re-embedding sweep in the background")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("reembed.enabled", serveCmd.Flags().Lookup("reembed"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := mustLogger()
	defer logger.Sync() //nolint:errcheck

	config := mustConfig(logger)

	logger.Info("starting the cv-sync api", zap.String("version", version))

	d, err := buildDeps(ctx, config, logger, false)
	if err != nil {
		logger.Fatal("initializing dependencies", zap.Error(err))
	}
	defer d.Close()

	imp, err := importer.New()
	if err != nil {
		logger.Fatal("loading import schema", zap.Error(err))
	}

	if config.Reembed.Enabled {
		if d.generator == nil {
			logger.Warn("skipping re-embedding scheduler", zap.String("reason", "no embedding provider"))
		} else {
			sweeper := scheduler.New(d.resumes, config.Reembed.IntervalHours, logger)
			if err := sweeper.Start(ctx); err != nil {
				logger.Fatal("starting re-embedding scheduler", zap.Error(err))
			}
			defer sweeper.Stop()
		}
	}

	app := api.NewApp(api.NewHandler(d.resumes, d.jobs, imp, logger))

	errs := make(chan error, 1)
	go func() {
		errs <- app.Listen(fmt.Sprintf(":%d", config.Server.Port))
	}()

	logger.Info("listening", zap.Int("port", config.Server.Port))

	select {
	case err := <-errs:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down", zap.String("reason", "signal received"))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("shutting down the server", zap.Error(err))
		}
	}
}
