package documents

import (
	"context"
	"testing"

	"s3-utils/core/storage/storagetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIntegration_Documents(t *testing.T) {
	tc := storagetest.Setup(t)
	ctx := context.Background()
	bucket, err := tc.CreateBucket(ctx)
	require.NoError(t, err)

	svc := NewService(tc.Client, bucket, zap.NewNop())
	require.NoError(t, svc.DeleteAll(ctx))

	t.Run("Document", func(t *testing.T) {
		storagetest.Exercise(t, svc.Storage(), Key{Kind: KindDocument, ID: uuid.NewString()})
	})
	t.Run("Image", func(t *testing.T) {
		storagetest.Exercise(t, svc.Storage(), Key{Kind: KindImage, ID: uuid.NewString()})
	})

	t.Run("DeleteKind", func(t *testing.T) {
		img := Key{Kind: KindImage, ID: "a"}
		doc := Key{Kind: KindDocument, ID: "b"}
		storagetest.Fill(t, svc.Storage(), img, doc)

		require.NoError(t, svc.DeleteKind(ctx, KindImage))

		keys, err := svc.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []Key{doc}, keys)
	})
}
