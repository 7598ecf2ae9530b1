package storagetest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"s3-utils/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercise runs the full lifecycle of one key through s: key round trip,
// put/get/info/exists/delete, then upload and download through presigned URLs,
// first without metadata and then with it. The key must not exist beforehand.
func Exercise[K any](t *testing.T, s *storage.Storage[K], key K) {
	t.Helper()
	ctx := context.Background()

	s3Key := s.Keys().ToS3(key)
	decoded, err := s.Keys().FromS3(s3Key)
	require.NoError(t, err)
	assert.Equal(t, key, decoded)

	info := storage.ObjectInfo{ContentType: "text/plain", Metadata: storage.Metadata{}}
	obj := storage.Object{ObjectInfo: info, Data: []byte("DATA")}

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.PutObject(ctx, key, obj))
	require.NoError(t, s.PutObject(ctx, key, obj))
	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := s.GetObject(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, &obj, got)

	gotInfo, err := s.Info(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, &info, gotInfo)

	require.NoError(t, s.Delete(ctx, key))
	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	// Presigned URLs
	putURL, err := s.SignedPutURL(ctx, key, info, 0)
	require.NoError(t, err)

	status := upload(t, putURL, http.Header{"Content-Type": {"text/plane"}}, "DATA")
	assert.GreaterOrEqual(t, status, 400, "upload with mismatched content type must be rejected")
	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	status = upload(t, putURL, storage.SignedHeaders(info), "DATA")
	assert.Equal(t, http.StatusOK, status)
	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	getURL, err := s.SignedGetURL(ctx, key, 0)
	require.NoError(t, err)
	resp, err := http.Get(getURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "DATA", string(body))

	require.NoError(t, s.Delete(ctx, key))
	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	exerciseMetadata(t, s, key)
}

// exerciseMetadata checks that metadata survives a round trip with lower-case
// keys and that presigned uploads must carry the signed metadata headers.
func exerciseMetadata[K any](t *testing.T, s *storage.Storage[K], key K) {
	t.Helper()
	ctx := context.Background()

	info := storage.ObjectInfo{
		ContentType: "application/json",
		Metadata:    storage.Metadata{"owner": "alice", "my-key": "value", "snake_k": "x"},
	}
	obj := storage.Object{ObjectInfo: info, Data: []byte(`{"a":1}`)}

	require.NoError(t, s.PutObject(ctx, key, obj))
	got, err := s.GetObject(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, &obj, got)
	gotInfo, err := s.Info(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, &info, gotInfo)
	require.NoError(t, s.Delete(ctx, key))

	putURL, err := s.SignedPutURL(ctx, key, info, 0)
	require.NoError(t, err)

	status := upload(t, putURL, http.Header{"Content-Type": {info.ContentType}}, "DATA")
	assert.GreaterOrEqual(t, status, 400, "upload without metadata headers must be rejected")

	wrong := storage.SignedHeaders(info)
	wrong.Set("X-Amz-Meta-Owner", "mallory")
	status = upload(t, putURL, wrong, "DATA")
	assert.GreaterOrEqual(t, status, 400, "upload with altered metadata must be rejected")

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	status = upload(t, putURL, storage.SignedHeaders(info), "DATA")
	assert.Equal(t, http.StatusOK, status)
	gotInfo, err = s.Info(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, &info, gotInfo)

	require.NoError(t, s.Delete(ctx, key))
	exists, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func upload(t *testing.T, url string, header http.Header, data string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader([]byte(data)))
	require.NoError(t, err)
	req.Header = header.Clone()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

// Fill writes one small object per key so bulk deletes have something to remove.
func Fill[K any](t *testing.T, s *storage.Storage[K], keys ...K) {
	t.Helper()
	for _, k := range keys {
		obj := storage.Object{
			ObjectInfo: storage.ObjectInfo{ContentType: "text/plain"},
			Data:       []byte(strings.Repeat("x", 8)),
		}
		require.NoError(t, s.PutObject(context.Background(), k, obj))
	}
}
