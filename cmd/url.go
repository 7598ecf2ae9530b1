package cmd

import (
	"fmt"
	"time"

	"s3-utils/core/storage"

	"github.com/spf13/cobra"
)

var expiresFlag time.Duration

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Generate presigned URLs",
}

var urlGetCmd = &cobra.Command{
	Use:   "get <kind> <id>",
	Short: "Presigned download URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, key, err := documentsFor(args)
		if err != nil {
			return err
		}
		u, err := svc.DownloadURL(cmd.Context(), key, expiresFlag)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	},
}

var urlPutCmd = &cobra.Command{
	Use:   "put <kind> <id>",
	Short: "Presigned upload URL bound to --content-type and --meta",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, key, err := documentsFor(args)
		if err != nil {
			return err
		}
		info := storage.ObjectInfo{ContentType: contentTypeFlag, Metadata: metadataFlag}
		u, err := svc.UploadURL(cmd.Context(), key, info, expiresFlag)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), u)
		for name, values := range storage.SignedHeaders(info) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", name, values[0])
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(urlCmd)
	urlCmd.AddCommand(urlGetCmd, urlPutCmd)

	urlCmd.PersistentFlags().DurationVar(&expiresFlag, "expires", storage.DefaultExpiry, "URL lifetime")
	urlPutCmd.Flags().StringVar(&contentTypeFlag, "content-type", "", "Content type the upload must send")
	urlPutCmd.Flags().StringToStringVar(&metadataFlag, "meta", nil, "Metadata the upload must send (key=value)")
}
