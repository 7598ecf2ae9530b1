package documents

import (
	"context"
	"time"

	"s3-utils/core/storage"

	"go.uber.org/zap"
)

// Service handles document operations.
type Service struct {
	store  *storage.Storage[Key]
	logger *zap.Logger
}

// NewService creates a document service over bucket.
func NewService(client storage.Client, bucket string, logger *zap.Logger, opts ...storage.Option) *Service {
	opts = append([]storage.Option{storage.WithLogger(logger)}, opts...)
	store := storage.New[Key](client, bucket, Converter{}, opts...)
	return &Service{
		store:  store,
		logger: logger.With(zap.String("bucket", store.Bucket())),
	}
}

// Storage returns the typed storage behind the service.
func (s *Service) Storage() *storage.Storage[Key] { return s.store }

// Put stores a document.
func (s *Service) Put(ctx context.Context, key Key, obj storage.Object) error {
	if err := s.store.PutObject(ctx, key, obj); err != nil {
		return err
	}
	s.logger.Info("Stored document", zap.String("kind", string(key.Kind)), zap.String("id", key.ID), zap.Int("bytes", len(obj.Data)))
	return nil
}

// Get reads a document. It returns nil when the object carries no content type.
func (s *Service) Get(ctx context.Context, key Key) (*storage.Object, error) {
	return s.store.GetObject(ctx, key)
}

// Info returns the document's content type and metadata.
func (s *Service) Info(ctx context.Context, key Key) (*storage.ObjectInfo, error) {
	return s.store.Info(ctx, key)
}

// Exists reports whether the document is stored.
func (s *Service) Exists(ctx context.Context, key Key) (bool, error) {
	return s.store.Exists(ctx, key)
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, key Key) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	s.logger.Info("Deleted document", zap.String("kind", string(key.Kind)), zap.String("id", key.ID))
	return nil
}

// DeleteKind removes every document of kind.
func (s *Service) DeleteKind(ctx context.Context, kind Kind) error {
	s.logger.Info("Deleting documents", zap.String("kind", string(kind)))
	return s.store.DeletePrefix(ctx, kind.Prefix())
}

// DeleteAll removes every object in the bucket.
func (s *Service) DeleteAll(ctx context.Context) error {
	s.logger.Info("Deleting all documents")
	return s.store.DeleteAll(ctx)
}

// List returns the keys of every document of kind, or of all kinds when kind is empty.
func (s *Service) List(ctx context.Context, kind Kind) ([]Key, error) {
	prefix := ""
	if kind != "" {
		prefix = kind.Prefix()
	}
	return s.store.ListKeys(ctx, prefix)
}

// DownloadURL returns a presigned URL for reading the document.
func (s *Service) DownloadURL(ctx context.Context, key Key, expiresIn time.Duration) (string, error) {
	return s.store.SignedGetURL(ctx, key, expiresIn)
}

// UploadURL returns a presigned URL for uploading the document with info.
func (s *Service) UploadURL(ctx context.Context, key Key, info storage.ObjectInfo, expiresIn time.Duration) (string, error) {
	return s.store.SignedPutURL(ctx, key, info, expiresIn)
}
