package cmd

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"s3-utils/core/storage"
	"s3-utils/feature/documents"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	contentTypeFlag string
	metadataFlag    map[string]string
	outFlag         string
	kindFlag        string
	yesFlag         bool
)

var objectCmd = &cobra.Command{
	Use:   "object",
	Short: "Read and write documents in the configured bucket",
}

var objectPutCmd = &cobra.Command{
	Use:   "put <kind> <id> <file>",
	Short: "Upload a file",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, key, err := documentsFor(args)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[2])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[2], err)
		}
		contentType := contentTypeFlag
		if contentType == "" {
			contentType = mime.TypeByExtension(filepath.Ext(args[2]))
		}
		return svc.Put(cmd.Context(), key, storage.Object{
			ObjectInfo: storage.ObjectInfo{ContentType: contentType, Metadata: metadataFlag},
			Data:       data,
		})
	},
}

var objectGetCmd = &cobra.Command{
	Use:   "get <kind> <id>",
	Short: "Download a document to stdout or --out",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, key, err := documentsFor(args)
		if err != nil {
			return err
		}
		obj, err := svc.Get(cmd.Context(), key)
		if err != nil {
			return err
		}
		if obj == nil {
			return fmt.Errorf("%s has no content type", documents.Converter{}.ToS3(key))
		}
		if outFlag == "" {
			_, err = cmd.OutOrStdout().Write(obj.Data)
			return err
		}
		return os.WriteFile(outFlag, obj.Data, 0644)
	},
}

var objectInfoCmd = &cobra.Command{
	Use:   "info <kind> <id>",
	Short: "Print content type and metadata",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, key, err := documentsFor(args)
		if err != nil {
			return err
		}
		info, err := svc.Info(cmd.Context(), key)
		if err != nil {
			return err
		}
		return printJSON(cmd, info)
	},
}

var objectExistsCmd = &cobra.Command{
	Use:   "exists <kind> <id>",
	Short: "Report whether a document exists",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, key, err := documentsFor(args)
		if err != nil {
			return err
		}
		exists, err := svc.Exists(cmd.Context(), key)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), exists)
		return nil
	},
}

var objectRmCmd = &cobra.Command{
	Use:   "rm <kind> <id>",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, key, err := documentsFor(args)
		if err != nil {
			return err
		}
		return svc.Delete(cmd.Context(), key)
	},
}

var objectLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List document keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := documentsService()
		if err != nil {
			return err
		}
		kind, err := optionalKind()
		if err != nil {
			return err
		}
		keys, err := svc.List(cmd.Context(), kind)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), documents.Converter{}.ToS3(k))
		}
		return nil
	},
}

var objectPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every document (or every document of --kind)",
	Long:  `Deletes page by page until the listing is empty. Do not run while other clients write to the same bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !yesFlag {
			return fmt.Errorf("refusing to purge without --yes")
		}
		svc, err := documentsService()
		if err != nil {
			return err
		}
		kind, err := optionalKind()
		if err != nil {
			return err
		}
		if kind == "" {
			return svc.DeleteAll(cmd.Context())
		}
		return svc.DeleteKind(cmd.Context(), kind)
	},
}

func documentsService() (*documents.Service, error) {
	e, err := loadEnv()
	if err != nil {
		return nil, err
	}
	e.logger = e.logger.With(zap.String("bucket", e.cfg.Storage.Bucket))
	return e.documents()
}

func documentsFor(args []string) (*documents.Service, documents.Key, error) {
	key, err := documents.NewKey(args[0], args[1])
	if err != nil {
		return nil, documents.Key{}, err
	}
	svc, err := documentsService()
	if err != nil {
		return nil, documents.Key{}, err
	}
	return svc, key, nil
}

func optionalKind() (documents.Kind, error) {
	if kindFlag == "" {
		return "", nil
	}
	return documents.ParseKind(kindFlag)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	RootCmd.AddCommand(objectCmd)
	objectCmd.AddCommand(objectPutCmd, objectGetCmd, objectInfoCmd, objectExistsCmd, objectRmCmd, objectLsCmd, objectPurgeCmd)

	objectPutCmd.Flags().StringVar(&contentTypeFlag, "content-type", "", "Content type (defaults to the file extension's type)")
	objectPutCmd.Flags().StringToStringVar(&metadataFlag, "meta", nil, "Metadata as key=value pairs (lower-case keys)")
	objectGetCmd.Flags().StringVarP(&outFlag, "out", "o", "", "Write to file instead of stdout")
	objectLsCmd.Flags().StringVar(&kindFlag, "kind", "", "Only list this kind (image, document)")
	objectPurgeCmd.Flags().StringVar(&kindFlag, "kind", "", "Only delete this kind (image, document)")
	objectPurgeCmd.Flags().BoolVar(&yesFlag, "yes", false, "Confirm the bulk delete")
}
