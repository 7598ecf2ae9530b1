package documents

import (
	"fmt"
	"strings"

	"s3-utils/core/storage"
)

// Kind is the category of a stored document.
type Kind string

const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindImage, KindDocument:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", storage.ErrInvalidKeyFormat, s)
	}
}

// Prefix is the store key prefix holding every document of kind k.
func (k Kind) Prefix() string { return string(k) + "/" }

// Key identifies a document. It is stored under "<kind>/<id>".
type Key struct {
	Kind Kind   `json:"kind"`
	ID   string `json:"id"`
}

// NewKey validates kind and id and builds a Key.
func NewKey(kind, id string) (Key, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return Key{}, err
	}
	if id == "" || strings.Contains(id, "/") {
		return Key{}, fmt.Errorf("%w: id %q must be non-empty and contain no '/'", storage.ErrInvalidKeyFormat, id)
	}
	return Key{Kind: k, ID: id}, nil
}

// Converter encodes Keys as "<kind>/<id>".
type Converter struct{}

var _ storage.KeyConverter[Key] = Converter{}

func (Converter) ToS3(key Key) string {
	return key.Kind.Prefix() + key.ID
}

func (Converter) FromS3(s3Key string) (Key, error) {
	parts := strings.Split(s3Key, "/")
	if len(parts) != 2 {
		return Key{}, fmt.Errorf("%w: %q", storage.ErrInvalidKeyFormat, s3Key)
	}
	return NewKey(parts[0], parts[1])
}
