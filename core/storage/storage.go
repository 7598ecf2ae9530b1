package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

const (
	// DefaultExpiry is the lifetime of presigned URLs when none is given.
	DefaultExpiry = 60 * time.Second
	// DefaultPageSize is the number of keys requested per listing page.
	DefaultPageSize = 1000

	metaHeaderPrefix = "X-Amz-Meta-"
)

// Storage is a typed view over one bucket. Callers address objects with K;
// the converter translates to store keys. It holds no mutable state and is
// safe for concurrent use.
type Storage[K any] struct {
	client   Client
	bucket   string
	keys     KeyConverter[K]
	prefix   string
	deleter  Deleter
	pageSize int
	logger   *zap.Logger
}

// Option configures a Storage.
type Option func(*options)

type options struct {
	prefix   string
	deleter  Deleter
	pageSize int
	logger   *zap.Logger
}

// WithPrefix restricts DeleteAll to keys under prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithDeleter replaces the default SingleDeleter used by bulk deletes.
func WithDeleter(d Deleter) Option {
	return func(o *options) {
		if d != nil {
			o.deleter = d
		}
	}
}

// WithPageSize sets how many keys each listing page requests.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New composes a client, a bucket and a key converter into a Storage.
func New[K any](client Client, bucket string, keys KeyConverter[K], opts ...Option) *Storage[K] {
	o := options{
		deleter:  SingleDeleter{},
		pageSize: DefaultPageSize,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Storage[K]{
		client:   client,
		bucket:   bucket,
		keys:     keys,
		prefix:   o.prefix,
		deleter:  o.deleter,
		pageSize: o.pageSize,
		logger:   o.logger.With(zap.String("bucket", bucket)),
	}
}

// Bucket returns the bucket name.
func (s *Storage[K]) Bucket() string { return s.bucket }

// Keys returns the key converter.
func (s *Storage[K]) Keys() KeyConverter[K] { return s.keys }

// Delete removes the object at key. Deleting a missing key is not an error.
func (s *Storage[K]) Delete(ctx context.Context, key K) error {
	k := s.keys.ToS3(key)
	if err := s.client.RemoveObject(ctx, s.bucket, k, minio.RemoveObjectOptions{}); err != nil {
		return &OpError{Op: "delete", Bucket: s.bucket, Key: k, Err: err}
	}
	return nil
}

// DeleteAll removes every object in the storage's scope: the whole bucket, or
// the prefix given with WithPrefix.
//
// It must not run while other writers add objects to the same scope; the loop
// only ends once a listing page comes back empty.
func (s *Storage[K]) DeleteAll(ctx context.Context) error {
	return s.DeletePrefix(ctx, s.prefix)
}

// DeletePrefix removes every object whose key starts with prefix. It lists one
// page, deletes it with the configured Deleter and repeats until a page is
// empty. The first list or delete failure aborts the operation.
func (s *Storage[K]) DeletePrefix(ctx context.Context, prefix string) error {
	total := 0
	for {
		keys, err := s.listPage(ctx, prefix)
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			break
		}
		if err := s.deleter.DeleteKeys(ctx, s.client, s.bucket, keys); err != nil {
			return err
		}
		total += len(keys)
		s.logger.Debug("Deleted page", zap.String("prefix", prefix), zap.Int("keys", len(keys)), zap.Int("total", total))
	}
	s.logger.Debug("Bulk delete finished", zap.String("prefix", prefix), zap.Int("total", total))
	return nil
}

// listPage returns at most pageSize keys under prefix, starting from the
// beginning of the listing.
func (s *Storage[K]) listPage(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
		MaxKeys:   s.pageSize,
	})

	keys := make([]string, 0, s.pageSize)
	var listErr error
	for obj := range ch {
		if obj.Err != nil {
			listErr = &OpError{Op: "list", Bucket: s.bucket, Key: prefix, Err: obj.Err}
			break
		}
		keys = append(keys, obj.Key)
		if len(keys) >= s.pageSize {
			break
		}
	}
	// Stop the listing goroutine and let it close the channel.
	cancel()
	for range ch {
	}
	if listErr != nil {
		return nil, listErr
	}
	return keys, nil
}

// ListKeys returns every key under prefix decoded through the converter.
// A store key the converter rejects fails the whole listing.
func (s *Storage[K]) ListKeys(ctx context.Context, prefix string) ([]K, error) {
	var result []K
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, &OpError{Op: "list", Bucket: s.bucket, Key: prefix, Err: obj.Err}
		}
		key, err := s.keys.FromS3(obj.Key)
		if err != nil {
			return nil, fmt.Errorf("decode %q: %w", obj.Key, err)
		}
		result = append(result, key)
	}
	return result, nil
}

// Exists reports whether an object is stored at key. Only a not-found
// response yields false; every other failure is returned.
func (s *Storage[K]) Exists(ctx context.Context, key K) (bool, error) {
	k := s.keys.ToS3(key)
	if _, err := s.client.StatObject(ctx, s.bucket, k, minio.StatObjectOptions{}); err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, &OpError{Op: "head", Bucket: s.bucket, Key: k, Err: err}
	}
	return true, nil
}

// Info returns the content type and metadata of the object at key. It returns
// nil without error when the store reports no content type. A missing object
// is an error classified as ErrNotFound.
func (s *Storage[K]) Info(ctx context.Context, key K) (*ObjectInfo, error) {
	k := s.keys.ToS3(key)
	stat, err := s.client.StatObject(ctx, s.bucket, k, minio.StatObjectOptions{})
	if err != nil {
		return nil, &OpError{Op: "head", Bucket: s.bucket, Key: k, Err: err}
	}
	if stat.ContentType == "" {
		s.logger.Warn("Object has no content type", zap.String("key", k))
		return nil, nil
	}
	return &ObjectInfo{
		ContentType: stat.ContentType,
		Metadata:    metadataFrom(stat.UserMetadata),
	}, nil
}

// GetObject reads the object at key fully into memory. It returns nil without
// error under the same condition as Info.
func (s *Storage[K]) GetObject(ctx context.Context, key K) (*Object, error) {
	k := s.keys.ToS3(key)
	r, err := s.client.GetObject(ctx, s.bucket, k, minio.GetObjectOptions{})
	if err != nil {
		return nil, &OpError{Op: "get", Bucket: s.bucket, Key: k, Err: err}
	}
	defer r.Close()

	stat, err := r.Stat()
	if err != nil {
		return nil, &OpError{Op: "get", Bucket: s.bucket, Key: k, Err: err}
	}
	if stat.ContentType == "" {
		s.logger.Warn("Object has no content type", zap.String("key", k))
		return nil, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &OpError{Op: "get", Bucket: s.bucket, Key: k, Err: err}
	}
	return &Object{
		ObjectInfo: ObjectInfo{
			ContentType: stat.ContentType,
			Metadata:    metadataFrom(stat.UserMetadata),
		},
		Data: data,
	}, nil
}

// PutObject stores obj at key, replacing any existing object.
func (s *Storage[K]) PutObject(ctx context.Context, key K, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	k := s.keys.ToS3(key)
	_, err := s.client.PutObject(ctx, s.bucket, k, bytes.NewReader(obj.Data), int64(len(obj.Data)), minio.PutObjectOptions{
		ContentType:  obj.ContentType,
		UserMetadata: obj.Metadata,
	})
	if err != nil {
		return &OpError{Op: "put", Bucket: s.bucket, Key: k, Err: err}
	}
	return nil
}

// SignedGetURL returns a URL that lets anyone read the object at key until
// expiresIn elapses. The object does not have to exist.
func (s *Storage[K]) SignedGetURL(ctx context.Context, key K, expiresIn time.Duration) (string, error) {
	k := s.keys.ToS3(key)
	u, err := s.client.PresignedGetObject(ctx, s.bucket, k, expiry(expiresIn), nil)
	if err != nil {
		return "", &OpError{Op: "presign-get", Bucket: s.bucket, Key: k, Err: err}
	}
	return u.String(), nil
}

// SignedPutURL returns a URL that lets anyone upload an object to key until
// expiresIn elapses. The content type and metadata of info are signed; an
// upload has to send matching Content-Type and X-Amz-Meta-* headers.
func (s *Storage[K]) SignedPutURL(ctx context.Context, key K, info ObjectInfo, expiresIn time.Duration) (string, error) {
	if err := info.Validate(); err != nil {
		return "", err
	}
	k := s.keys.ToS3(key)
	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, k, expiry(expiresIn), nil, SignedHeaders(info))
	if err != nil {
		return "", &OpError{Op: "presign-put", Bucket: s.bucket, Key: k, Err: err}
	}
	return u.String(), nil
}

// SignedHeaders returns the request headers an upload through a URL from
// SignedPutURL must carry.
func SignedHeaders(info ObjectInfo) http.Header {
	h := http.Header{}
	h.Set("Content-Type", info.ContentType)
	for k, v := range info.Metadata {
		h.Set(metaHeaderPrefix+strings.ToLower(k), v)
	}
	return h
}

func expiry(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultExpiry
	}
	return d
}
