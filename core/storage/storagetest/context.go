// Package storagetest runs Storage implementations against a real
// S3-compatible store.
//
// A TestContext points at the endpoint named by S3_TEST_ENDPOINT when it is set
// and otherwise starts a MinIO container with testcontainers. Each test gets a
// fresh bucket from CreateBucket.
package storagetest

import (
	"context"
	"fmt"
	"os"
	"testing"

	"s3-utils/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/testcontainers/testcontainers-go"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
)

const (
	// EndpointEnv names an already running store to use instead of a container.
	EndpointEnv = "S3_TEST_ENDPOINT"
	// AccessKeyEnv and SecretKeyEnv hold credentials for EndpointEnv.
	AccessKeyEnv = "S3_TEST_ACCESS_KEY"
	SecretKeyEnv = "S3_TEST_SECRET_KEY"
	// Region is the region buckets are created in.
	Region = "eu-central-1"

	minioImage = "minio/minio:RELEASE.2024-01-16T16-07-38Z"
)

// TestContext owns the connection to a test store and, when it started one,
// the container behind it.
type TestContext struct {
	Client storage.Client
	Config storage.Config

	container *tcminio.MinioContainer
}

// NewTestContext connects to the store named by EndpointEnv or starts a container.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	cfg := storage.Config{
		Endpoint:  os.Getenv(EndpointEnv),
		AccessKey: envOr(AccessKeyEnv, "minioadmin"),
		SecretKey: envOr(SecretKeyEnv, "minioadmin"),
		PathStyle: true,
		Region:    Region,
	}

	var container *tcminio.MinioContainer
	if cfg.Endpoint == "" {
		c, err := tcminio.Run(ctx, minioImage)
		if err != nil {
			return nil, fmt.Errorf("failed to start minio container: %w", err)
		}
		endpoint, err := c.ConnectionString(ctx)
		if err != nil {
			_ = c.Terminate(ctx)
			return nil, fmt.Errorf("failed to get minio endpoint: %w", err)
		}
		container = c
		cfg.Endpoint = endpoint
		cfg.AccessKey = c.Username
		cfg.SecretKey = c.Password
	}

	client, err := storage.NewClient(cfg)
	if err != nil {
		if container != nil {
			_ = container.Terminate(ctx)
		}
		return nil, err
	}

	return &TestContext{Client: client, Config: cfg, container: container}, nil
}

// Setup returns a TestContext destroyed when t finishes. The test is skipped
// in -short mode or when no store can be reached.
func Setup(t *testing.T) *TestContext {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping object store integration test in short mode")
	}
	if os.Getenv(EndpointEnv) == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
	}
	ctx := context.Background()
	tc, err := NewTestContext(ctx)
	if err != nil {
		t.Skipf("object store unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := tc.Destroy(context.Background()); err != nil {
			t.Logf("failed to destroy test context: %v", err)
		}
	})
	return tc
}

// CreateBucket creates a bucket with a random name.
func (c *TestContext) CreateBucket(ctx context.Context) (string, error) {
	bucket := uuid.NewString()
	if err := c.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: Region}); err != nil {
		return "", fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return bucket, nil
}

// Destroy stops the container if this context started one.
func (c *TestContext) Destroy(ctx context.Context) error {
	if c.container == nil {
		return nil
	}
	return c.container.Terminate(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
