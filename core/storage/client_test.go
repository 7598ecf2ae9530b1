package storage_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"s3-utils/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "test-bucket",
			Region:    "eu-central-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTP", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "http://localhost:4566",
			AccessKey: "test",
			SecretKey: "test",
			PathStyle: true,
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("InvalidEndpoint", func(t *testing.T) {
		cfg := storage.Config{Endpoint: "localhost:9000/path"}

		client, err := storage.NewClient(cfg)
		assert.Error(t, err)
		assert.Nil(t, client)
	})

	// Presigning needs no network once the region is known, so the URL shows
	// how the client addresses the store.
	presign := func(t *testing.T, cfg storage.Config) (scheme, host, path string) {
		t.Helper()
		client, err := storage.NewClient(cfg)
		require.NoError(t, err)
		u, err := client.PresignedGetObject(context.Background(), "test-bucket", "doc.txt", time.Minute, nil)
		require.NoError(t, err)
		return u.Scheme, u.Host, u.Path
	}

	t.Run("HTTPSPrefixForcesSSL", func(t *testing.T) {
		scheme, host, _ := presign(t, storage.Config{
			Endpoint:  "https://minio.internal:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			PathStyle: true,
			Region:    "eu-central-1",
		})
		assert.Equal(t, "https", scheme)
		assert.Equal(t, "minio.internal:9000", host)
	})

	t.Run("PlainEndpointKeepsSSLSetting", func(t *testing.T) {
		scheme, _, _ := presign(t, storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			PathStyle: true,
			Region:    "eu-central-1",
		})
		assert.Equal(t, "http", scheme)
	})

	t.Run("PathStyleAddressing", func(t *testing.T) {
		_, host, path := presign(t, storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			PathStyle: true,
			Region:    "us-east-1",
		})
		assert.False(t, strings.HasPrefix(host, "test-bucket."), host)
		assert.Equal(t, "/test-bucket/doc.txt", path)
	})

	t.Run("VirtualHostAddressing", func(t *testing.T) {
		_, host, path := presign(t, storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			PathStyle: false,
			Region:    "us-east-1",
		})
		assert.True(t, strings.HasPrefix(host, "test-bucket."), host)
		assert.Equal(t, "/doc.txt", path)
	})
}
