package event

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7/pkg/notification"
)

// Type classifies a bucket notification.
type Type string

const (
	Created Type = "created"
	Removed Type = "removed"
	Other   Type = "other"
)

// Record is a classified bucket notification.
type Record struct {
	Type   Type   `json:"eventType"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Size   int64  `json:"size"`
}

// TypeOf classifies an S3 event name such as "ObjectCreated:Put" or
// "s3:ObjectRemoved:Delete".
func TypeOf(eventName string) Type {
	name := strings.TrimPrefix(eventName, "s3:")
	switch {
	case strings.HasPrefix(name, "ObjectCreated"):
		return Created
	case strings.HasPrefix(name, "ObjectRemoved"):
		return Removed
	default:
		return Other
	}
}

// ParseRecord classifies one notification record. Keys arrive form-encoded:
// percent escapes, with '+' standing for a space.
func ParseRecord(e notification.Event) (Record, error) {
	key, err := url.QueryUnescape(e.S3.Object.Key)
	if err != nil {
		return Record{}, fmt.Errorf("failed to decode key %q: %w", e.S3.Object.Key, err)
	}
	return Record{
		Type:   TypeOf(e.EventName),
		Bucket: e.S3.Bucket.Name,
		Key:    key,
		Size:   e.S3.Object.Size,
	}, nil
}

// ParsePayload decodes a notification document ({"Records": [...]}) and
// classifies every record in order.
func ParsePayload(data []byte) ([]Record, error) {
	var payload struct {
		Records []notification.Event `json:"Records"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode notification: %w", err)
	}

	records := make([]Record, 0, len(payload.Records))
	for _, e := range payload.Records {
		r, err := ParseRecord(e)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}
