package storage

// KeyConverter maps a domain key to the flat store key and back.
//
// ToS3 must be deterministic. FromS3 must invert ToS3 for every string ToS3
// produces and fail with an error wrapping ErrInvalidKeyFormat for any other
// string. Structured fields should be encoded as fixed, ordered path segments
// so that prefix listing scopes to a sub-hierarchy.
type KeyConverter[K any] interface {
	ToS3(key K) string
	FromS3(s3Key string) (K, error)
}

// KeyConverterFunc builds a KeyConverter from a pair of functions.
type KeyConverterFunc[K any] struct {
	Encode func(key K) string
	Decode func(s3Key string) (K, error)
}

func (f KeyConverterFunc[K]) ToS3(key K) string { return f.Encode(key) }

func (f KeyConverterFunc[K]) FromS3(s3Key string) (K, error) { return f.Decode(s3Key) }

// StringKeys is the identity converter for callers that use raw store keys.
type StringKeys struct{}

func (StringKeys) ToS3(key string) string { return key }

func (StringKeys) FromS3(s3Key string) (string, error) { return s3Key, nil }
