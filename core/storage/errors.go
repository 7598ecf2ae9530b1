package storage

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/minio/minio-go/v7"
)

var (
	// ErrNotFound classifies a backend failure caused by a missing key or bucket.
	ErrNotFound = errors.New("object not found")
	// ErrInvalidKeyFormat is returned by KeyConverter.FromS3 for strings outside its encoding.
	ErrInvalidKeyFormat = errors.New("invalid key format")
	// ErrPermissionDenied classifies an authorization failure.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrRateLimited classifies a throttling response.
	ErrRateLimited = errors.New("rate limited")
	// ErrBackendUnavailable classifies a transport failure reaching the store.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrInvalidObject is returned before any network call when an object fails validation.
	ErrInvalidObject = errors.New("invalid object")
)

// OpError records the backend call that failed. Err is the backend error as returned.
type OpError struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *OpError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s %s: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("storage %s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Is reports whether the wrapped backend error belongs to the target class.
func (e *OpError) Is(target error) bool {
	switch target {
	case ErrNotFound, ErrPermissionDenied, ErrRateLimited, ErrBackendUnavailable:
		return classify(e.Err) == target
	}
	return false
}

// IsNotFound reports whether err was caused by a missing object.
func IsNotFound(err error) bool {
	return classify(err) == ErrNotFound
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && (resp.Code != "" || resp.StatusCode != 0) {
		switch resp.Code {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return ErrNotFound
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return ErrPermissionDenied
		case "SlowDown", "RequestLimitExceeded", "TooManyRequests":
			return ErrRateLimited
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusForbidden:
			return ErrPermissionDenied
		case http.StatusTooManyRequests, http.StatusServiceUnavailable:
			return ErrRateLimited
		}
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrBackendUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrBackendUnavailable
	}
	return nil
}
