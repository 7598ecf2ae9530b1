package documents

import (
	"context"
	"testing"

	"s3-utils/core/storage"
	"s3-utils/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestServiceLogsBucket(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", zap.New(core))
	assert.Equal(t, "test-bucket", svc.Storage().Bucket())

	mockClient.On("PutObject", mock.Anything, "test-bucket", "image/1", mock.Anything, int64(4), mock.Anything).
		Return(minio.UploadInfo{}, nil)
	mockClient.On("RemoveObject", mock.Anything, "test-bucket", "image/1", mock.Anything).Return(nil)

	key := Key{Kind: KindImage, ID: "1"}
	require.NoError(t, svc.Put(context.Background(), key, storage.Object{
		ObjectInfo: storage.ObjectInfo{ContentType: "image/png"},
		Data:       []byte("DATA"),
	}))
	require.NoError(t, svc.Delete(context.Background(), key))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Stored document", entries[0].Message)
	assert.Equal(t, "Deleted document", entries[1].Message)
	for _, e := range entries {
		assert.Equal(t, "test-bucket", e.ContextMap()["bucket"])
		assert.Equal(t, "image", e.ContextMap()["kind"])
	}
}
