package storage

import (
	"fmt"
	"strings"

	"s3-utils/core/utils"
)

// Metadata holds user metadata of an object. Keys are lower-case.
type Metadata map[string]string

// ObjectInfo is everything about a stored object except its bytes.
type ObjectInfo struct {
	ContentType string   `json:"contentType"`
	Metadata    Metadata `json:"metadata"`
}

// Object is an ObjectInfo together with the object body.
type Object struct {
	ObjectInfo
	Data []byte `json:"-"`
}

// Validate checks the content type is set and metadata keys are lower-case.
func (i ObjectInfo) Validate() error {
	if strings.TrimSpace(i.ContentType) == "" {
		return fmt.Errorf("%w: content type is required", ErrInvalidObject)
	}
	for k := range i.Metadata {
		if k == "" || k != strings.ToLower(k) {
			return fmt.Errorf("%w: metadata key %q must be non-empty lower-case", ErrInvalidObject, k)
		}
	}
	return nil
}

// metadataFrom converts minio user metadata (canonical header case, prefix
// already stripped) into lower-case keys. The result is never nil.
func metadataFrom(user map[string]string) Metadata {
	return Metadata(utils.LowerKeys(user))
}
