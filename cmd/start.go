package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"s3-utils/core/storage"
	"s3-utils/feature/documents"
	"s3-utils/feature/events"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title s3-utils API
// @version 1.0
// @description Typed document storage over an S3-compatible bucket.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Long:  `Starts the HTTP server and loads the documents and events features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		logg := e.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		opts, err := e.storageOptions()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		created, err := storage.EnsureBucket(ctx, e.client, e.cfg.Storage.Bucket, e.cfg.Storage.Region)
		cancel()
		if err != nil {
			logg.Warn("Bucket check failed", zap.String("bucket", e.cfg.Storage.Bucket), zap.Error(err))
		} else if created {
			logg.Info("Created bucket", zap.String("bucket", e.cfg.Storage.Bucket))
		}

		app, loaded, err := newServer(e.cfg.Server, logg,
			documents.NewFeature(e.client, e.cfg.Storage.Bucket, logg, opts...),
			events.NewFeature(logg),
		)
		if err != nil {
			return err
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		go func() {
			logg.Info("Starting server", zap.String("port", e.cfg.Server.Port))
			if err := app.Listen(":" + e.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
