package cmd

import (
	"s3-utils/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Manage the configured bucket",
}

var bucketEnsureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Create the configured bucket if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		created, err := storage.EnsureBucket(cmd.Context(), e.client, e.cfg.Storage.Bucket, e.cfg.Storage.Region)
		if err != nil {
			return err
		}
		e.logger.Info("Bucket ready", zap.String("bucket", e.cfg.Storage.Bucket), zap.Bool("created", created))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(bucketCmd)
	bucketCmd.AddCommand(bucketEnsureCmd)
}
