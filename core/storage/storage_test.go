package storage_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"s3-utils/core/storage"
	"s3-utils/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testKey struct {
	Kind string
	ID   string
}

var testKeys = storage.KeyConverterFunc[testKey]{
	Encode: func(k testKey) string { return k.Kind + "/" + k.ID },
	Decode: func(s string) (testKey, error) {
		parts := strings.Split(s, "/")
		if len(parts) != 2 || (parts[0] != "image" && parts[0] != "document") {
			return testKey{}, fmt.Errorf("%w: %s", storage.ErrInvalidKeyFormat, s)
		}
		return testKey{Kind: parts[0], ID: parts[1]}, nil
	},
}

var notFound = minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}

func newStorage(opts ...storage.Option) (*storage.Storage[testKey], *mocks.Client) {
	client := new(mocks.Client)
	return storage.New[testKey](client, "test-bucket", testKeys, opts...), client
}

func TestExists(t *testing.T) {
	key := testKey{Kind: "document", ID: "123"}

	t.Run("Present", func(t *testing.T) {
		s, client := newStorage()
		client.On("StatObject", mock.Anything, "test-bucket", "document/123", mock.Anything).
			Return(minio.ObjectInfo{Key: "document/123", ContentType: "text/plain"}, nil)

		ok, err := s.Exists(context.Background(), key)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("NotFound", func(t *testing.T) {
		s, client := newStorage()
		client.On("StatObject", mock.Anything, "test-bucket", "document/123", mock.Anything).
			Return(minio.ObjectInfo{}, notFound)

		ok, err := s.Exists(context.Background(), key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("PermissionDenied", func(t *testing.T) {
		s, client := newStorage()
		backendErr := minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}
		client.On("StatObject", mock.Anything, "test-bucket", "document/123", mock.Anything).
			Return(minio.ObjectInfo{}, backendErr)

		ok, err := s.Exists(context.Background(), key)
		require.Error(t, err)
		assert.False(t, ok)
		assert.ErrorIs(t, err, storage.ErrPermissionDenied)
		assert.NotErrorIs(t, err, storage.ErrNotFound)

		var opErr *storage.OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "head", opErr.Op)
		assert.Equal(t, backendErr, opErr.Err)
	})

	t.Run("Unavailable", func(t *testing.T) {
		s, client := newStorage()
		client.On("StatObject", mock.Anything, "test-bucket", "document/123", mock.Anything).
			Return(minio.ObjectInfo{}, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")})

		_, err := s.Exists(context.Background(), key)
		assert.ErrorIs(t, err, storage.ErrBackendUnavailable)
	})
}

func TestInfo(t *testing.T) {
	key := testKey{Kind: "image", ID: "a"}

	t.Run("Present", func(t *testing.T) {
		s, client := newStorage()
		client.On("StatObject", mock.Anything, "test-bucket", "image/a", mock.Anything).
			Return(minio.ObjectInfo{ContentType: "image/png", UserMetadata: map[string]string{"Owner": "alice"}}, nil)

		info, err := s.Info(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, &storage.ObjectInfo{ContentType: "image/png", Metadata: storage.Metadata{"owner": "alice"}}, info)
	})

	t.Run("EmptyMetadata", func(t *testing.T) {
		s, client := newStorage()
		client.On("StatObject", mock.Anything, "test-bucket", "image/a", mock.Anything).
			Return(minio.ObjectInfo{ContentType: "text/plain"}, nil)

		info, err := s.Info(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, storage.Metadata{}, info.Metadata)
	})

	t.Run("NoContentType", func(t *testing.T) {
		s, client := newStorage()
		client.On("StatObject", mock.Anything, "test-bucket", "image/a", mock.Anything).
			Return(minio.ObjectInfo{}, nil)

		info, err := s.Info(context.Background(), key)
		require.NoError(t, err)
		assert.Nil(t, info)
	})

	t.Run("NotFound", func(t *testing.T) {
		s, client := newStorage()
		client.On("StatObject", mock.Anything, "test-bucket", "image/a", mock.Anything).
			Return(minio.ObjectInfo{}, notFound)

		info, err := s.Info(context.Background(), key)
		assert.Nil(t, info)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestGetObject(t *testing.T) {
	key := testKey{Kind: "document", ID: "123"}

	t.Run("Present", func(t *testing.T) {
		s, client := newStorage()
		obj := mocks.NewObject([]byte("DATA"), minio.ObjectInfo{ContentType: "text/plain"})
		client.On("GetObject", mock.Anything, "test-bucket", "document/123", mock.Anything).Return(obj, nil)

		got, err := s.GetObject(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, &storage.Object{
			ObjectInfo: storage.ObjectInfo{ContentType: "text/plain", Metadata: storage.Metadata{}},
			Data:       []byte("DATA"),
		}, got)
		assert.True(t, obj.Closed)
	})

	t.Run("NoContentType", func(t *testing.T) {
		s, client := newStorage()
		obj := mocks.NewObject([]byte("DATA"), minio.ObjectInfo{})
		client.On("GetObject", mock.Anything, "test-bucket", "document/123", mock.Anything).Return(obj, nil)

		got, err := s.GetObject(context.Background(), key)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("StatFails", func(t *testing.T) {
		s, client := newStorage()
		obj := mocks.NewObject(nil, minio.ObjectInfo{})
		obj.StatErr = notFound
		client.On("GetObject", mock.Anything, "test-bucket", "document/123", mock.Anything).Return(obj, nil)

		got, err := s.GetObject(context.Background(), key)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestPutObject(t *testing.T) {
	key := testKey{Kind: "document", ID: "123"}

	t.Run("Valid", func(t *testing.T) {
		s, client := newStorage()
		client.On("PutObject", mock.Anything, "test-bucket", "document/123", mock.Anything, int64(4),
			mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
				return opts.ContentType == "text/plain" && opts.UserMetadata["owner"] == "alice"
			})).Return(minio.UploadInfo{}, nil)

		err := s.PutObject(context.Background(), key, storage.Object{
			ObjectInfo: storage.ObjectInfo{ContentType: "text/plain", Metadata: storage.Metadata{"owner": "alice"}},
			Data:       []byte("DATA"),
		})
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("MissingContentType", func(t *testing.T) {
		s, client := newStorage()

		err := s.PutObject(context.Background(), key, storage.Object{Data: []byte("DATA")})
		assert.ErrorIs(t, err, storage.ErrInvalidObject)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UpperCaseMetadata", func(t *testing.T) {
		s, _ := newStorage()

		err := s.PutObject(context.Background(), key, storage.Object{
			ObjectInfo: storage.ObjectInfo{ContentType: "text/plain", Metadata: storage.Metadata{"Owner": "alice"}},
		})
		assert.ErrorIs(t, err, storage.ErrInvalidObject)
	})

	t.Run("BackendError", func(t *testing.T) {
		s, client := newStorage()
		client.On("PutObject", mock.Anything, "test-bucket", "document/123", mock.Anything, int64(0), mock.Anything).
			Return(minio.UploadInfo{}, minio.ErrorResponse{Code: "SlowDown", StatusCode: http.StatusServiceUnavailable})

		err := s.PutObject(context.Background(), key, storage.Object{ObjectInfo: storage.ObjectInfo{ContentType: "text/plain"}})
		assert.ErrorIs(t, err, storage.ErrRateLimited)
	})
}

func TestDelete(t *testing.T) {
	s, client := newStorage()
	client.On("RemoveObject", mock.Anything, "test-bucket", "image/x", mock.Anything).Return(nil)

	err := s.Delete(context.Background(), testKey{Kind: "image", ID: "x"})
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestDeleteAll(t *testing.T) {
	t.Run("Paginated", func(t *testing.T) {
		s, client := newStorage(storage.WithPageSize(2))
		pageOpts := mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
			return opts.Prefix == "" && opts.Recursive && opts.MaxKeys == 2
		})
		client.On("ListObjects", mock.Anything, "test-bucket", pageOpts).Return(mocks.Listing("a", "b", "c")).Once()
		client.On("ListObjects", mock.Anything, "test-bucket", pageOpts).Return(mocks.Listing("c")).Once()
		client.On("ListObjects", mock.Anything, "test-bucket", pageOpts).Return(mocks.Listing()).Once()
		client.On("RemoveObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything).Return(nil)

		err := s.DeleteAll(context.Background())
		require.NoError(t, err)
		client.AssertNumberOfCalls(t, "ListObjects", 3)
		client.AssertNumberOfCalls(t, "RemoveObject", 3)
		client.AssertCalled(t, "RemoveObject", mock.Anything, "test-bucket", "a", mock.Anything)
		client.AssertCalled(t, "RemoveObject", mock.Anything, "test-bucket", "b", mock.Anything)
		client.AssertCalled(t, "RemoveObject", mock.Anything, "test-bucket", "c", mock.Anything)
	})

	t.Run("Scoped", func(t *testing.T) {
		s, client := newStorage(storage.WithPrefix("image/"))
		scoped := mock.MatchedBy(func(opts minio.ListObjectsOptions) bool { return opts.Prefix == "image/" })
		client.On("ListObjects", mock.Anything, "test-bucket", scoped).Return(mocks.Listing("image/1")).Once()
		client.On("ListObjects", mock.Anything, "test-bucket", scoped).Return(mocks.Listing()).Once()
		client.On("RemoveObject", mock.Anything, "test-bucket", "image/1", mock.Anything).Return(nil)

		require.NoError(t, s.DeleteAll(context.Background()))
		client.AssertExpectations(t)
	})

	t.Run("DeleteFailureAborts", func(t *testing.T) {
		s, client := newStorage()
		client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(mocks.Listing("a", "b")).Once()
		client.On("RemoveObject", mock.Anything, "test-bucket", "a", mock.Anything).Return(assert.AnError)

		err := s.DeleteAll(context.Background())
		assert.ErrorIs(t, err, assert.AnError)
		client.AssertNotCalled(t, "RemoveObject", mock.Anything, "test-bucket", "b", mock.Anything)
		client.AssertNumberOfCalls(t, "ListObjects", 1)
	})

	t.Run("ListFailureAborts", func(t *testing.T) {
		s, client := newStorage()
		ch := make(chan minio.ObjectInfo, 1)
		ch <- minio.ObjectInfo{Err: assert.AnError}
		close(ch)
		client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		err := s.DeleteAll(context.Background())
		var opErr *storage.OpError
		require.ErrorAs(t, err, &opErr)
		assert.Equal(t, "list", opErr.Op)
		client.AssertNotCalled(t, "RemoveObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BatchStrategy", func(t *testing.T) {
		s, client := newStorage(storage.WithDeleter(storage.BatchDeleter{}))
		client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(mocks.Listing("a", "b")).Once()
		client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(mocks.Listing()).Once()

		var removed []string
		done := make(chan minio.RemoveObjectError)
		client.On("RemoveObjects", mock.Anything, "test-bucket", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				objects := args.Get(2).(<-chan minio.ObjectInfo)
				go func() {
					for o := range objects {
						removed = append(removed, o.Key)
					}
					close(done)
				}()
			}).Return((<-chan minio.RemoveObjectError)(done))

		require.NoError(t, s.DeleteAll(context.Background()))
		assert.Equal(t, []string{"a", "b"}, removed)
		client.AssertNotCalled(t, "RemoveObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListKeys(t *testing.T) {
	t.Run("Decoded", func(t *testing.T) {
		s, client := newStorage()
		client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(mocks.Listing("image/1", "document/2"))

		keys, err := s.ListKeys(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, []testKey{{Kind: "image", ID: "1"}, {Kind: "document", ID: "2"}}, keys)
	})

	t.Run("ForeignKey", func(t *testing.T) {
		s, client := newStorage()
		client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(mocks.Listing("video/1"))

		_, err := s.ListKeys(context.Background(), "")
		assert.ErrorIs(t, err, storage.ErrInvalidKeyFormat)
	})
}

func TestSignedURLs(t *testing.T) {
	key := testKey{Kind: "document", ID: "123"}
	signed, _ := url.Parse("http://localhost:9000/test-bucket/document/123?X-Amz-Signature=abc")

	t.Run("GetDefaultExpiry", func(t *testing.T) {
		s, client := newStorage()
		client.On("PresignedGetObject", mock.Anything, "test-bucket", "document/123", 60*time.Second, mock.Anything).
			Return(signed, nil)

		u, err := s.SignedGetURL(context.Background(), key, 0)
		require.NoError(t, err)
		assert.Equal(t, signed.String(), u)
	})

	t.Run("PutBindsHeaders", func(t *testing.T) {
		s, client := newStorage()
		client.On("PresignHeader", mock.Anything, http.MethodPut, "test-bucket", "document/123", 5*time.Minute, mock.Anything,
			mock.MatchedBy(func(h http.Header) bool {
				return h.Get("Content-Type") == "text/plain" && h.Get("X-Amz-Meta-Owner") == "alice"
			})).Return(signed, nil)

		info := storage.ObjectInfo{ContentType: "text/plain", Metadata: storage.Metadata{"owner": "alice"}}
		u, err := s.SignedPutURL(context.Background(), key, info, 5*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, signed.String(), u)
	})

	t.Run("PutRequiresContentType", func(t *testing.T) {
		s, _ := newStorage()

		_, err := s.SignedPutURL(context.Background(), key, storage.ObjectInfo{}, 0)
		assert.ErrorIs(t, err, storage.ErrInvalidObject)
	})
}

func TestEnsureBucket(t *testing.T) {
	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(true, nil)

		created, err := storage.EnsureBucket(context.Background(), client, "b", "")
		require.NoError(t, err)
		assert.False(t, created)
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Created", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "b").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "b", minio.MakeBucketOptions{Region: "eu-central-1"}).Return(nil)

		created, err := storage.EnsureBucket(context.Background(), client, "b", "eu-central-1")
		require.NoError(t, err)
		assert.True(t, created)
	})
}

func TestDeleterFor(t *testing.T) {
	d, err := storage.DeleterFor("")
	require.NoError(t, err)
	assert.IsType(t, storage.SingleDeleter{}, d)

	d, err = storage.DeleterFor(storage.DeleteBatch)
	require.NoError(t, err)
	assert.IsType(t, storage.BatchDeleter{}, d)

	_, err = storage.DeleterFor("parallel")
	assert.Error(t, err)
}
