package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
)

const (
	// DeleteSingle removes listed keys with one request per key.
	DeleteSingle = "single"
	// DeleteBatch removes listed keys with multi-object delete requests.
	DeleteBatch = "batch"
)

// Deleter removes a page of keys from a bucket.
type Deleter interface {
	DeleteKeys(ctx context.Context, client Client, bucket string, keys []string) error
}

// SingleDeleter issues one RemoveObject call per key, in order.
//
// Some S3 emulators intermittently reject multi-object deletes with
// "string index out of range"; this is the default for that reason.
type SingleDeleter struct{}

func (SingleDeleter) DeleteKeys(ctx context.Context, client Client, bucket string, keys []string) error {
	for _, key := range keys {
		if err := client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return &OpError{Op: "delete", Bucket: bucket, Key: key, Err: err}
		}
	}
	return nil
}

// BatchDeleter removes keys with RemoveObjects. Only use it against a backend
// whose multi-object delete is known to work.
type BatchDeleter struct{}

func (BatchDeleter) DeleteKeys(ctx context.Context, client Client, bucket string, keys []string) error {
	objectsCh := make(chan minio.ObjectInfo)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		defer close(objectsCh)
		for _, key := range keys {
			select {
			case objectsCh <- minio.ObjectInfo{Key: key}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var firstErr error
	for rErr := range client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rErr.Err != nil && firstErr == nil {
			firstErr = &OpError{Op: "delete-batch", Bucket: bucket, Key: rErr.ObjectName, Err: rErr.Err}
			// Stop feeding keys; keep draining until minio closes the channel.
			cancel()
		}
	}
	return firstErr
}

// DeleterFor returns the strategy registered under name.
// An empty name selects DeleteSingle.
func DeleterFor(name string) (Deleter, error) {
	switch name {
	case "", DeleteSingle:
		return SingleDeleter{}, nil
	case DeleteBatch:
		return BatchDeleter{}, nil
	default:
		return nil, fmt.Errorf("unknown delete strategy %q", name)
	}
}
