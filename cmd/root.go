package cmd

import (
	"fmt"
	"os"

	"s3-utils/core/config"
	"s3-utils/core/logger"
	"s3-utils/core/storage"
	"s3-utils/feature/documents"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "s3-utils",
	Short: "Typed object storage service",
	Long: `s3-utils stores images and documents in an S3-compatible bucket under typed keys.
It serves them over HTTP and hands out presigned URLs for direct transfers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with the development config for readable CLI errors
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// env bundles what every command needs.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	client storage.Client
}

func loadEnv() (*env, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &env{cfg: cfg, logger: logg, client: client}, nil
}

// storageOptions translates storage config into Storage options.
func (e *env) storageOptions() ([]storage.Option, error) {
	deleter, err := storage.DeleterFor(e.cfg.Storage.DeleteStrategy)
	if err != nil {
		return nil, err
	}
	return []storage.Option{
		storage.WithDeleter(deleter),
		storage.WithPageSize(e.cfg.Storage.PageSize),
	}, nil
}

func (e *env) documents() (*documents.Service, error) {
	opts, err := e.storageOptions()
	if err != nil {
		return nil, err
	}
	return documents.NewService(e.client, e.cfg.Storage.Bucket, e.logger, opts...), nil
}
