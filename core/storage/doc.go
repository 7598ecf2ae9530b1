// Package storage provides a typed abstraction over an S3-compatible object store.
//
// It wraps the MinIO Go client behind the Client interface and builds the
// generic Storage type on top of it. Callers address objects with their own key
// type; a KeyConverter translates it to the flat store key and back.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - PutObject / GetObject: write or read a whole object (content type, metadata, bytes).
//   - Info / Exists: HEAD the object. Exists turns a not-found response into false.
//   - Delete: remove one key.
//   - DeleteAll / DeletePrefix: list a page, delete it, repeat until a page is empty.
//   - SignedGetURL / SignedPutURL: presigned URLs for direct access by third parties.
//   - ListKeys: list and decode keys back into the domain key type.
//
// # Bulk Delete
//
// Listed keys are removed by a Deleter. SingleDeleter (the default) issues one
// request per key; BatchDeleter uses multi-object delete, which some emulators
// reject intermittently. DeleteAll assumes no concurrent writer adds keys to
// the same scope.
//
// # Errors
//
// Backend failures are returned as *OpError carrying the original error.
// errors.Is classifies them against ErrNotFound, ErrPermissionDenied,
// ErrRateLimited and ErrBackendUnavailable. Nothing is retried.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	docs := storage.New[DocumentKey](client, "documents", converter)
//	err = docs.PutObject(ctx, key, storage.Object{ObjectInfo: storage.ObjectInfo{ContentType: "text/plain"}, Data: data})
package storage
