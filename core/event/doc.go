// Package event classifies S3 bucket notifications.
//
// A notification record is reduced to its event type (created, removed or
// other), bucket, decoded key and size. The package is stateless and is used by
// consumers of bucket notifications, not by the storage core.
//
// # Usage
//
//	records, err := event.ParsePayload(body)
//	for _, r := range records {
//	    if r.Type == event.Created { ... }
//	}
package event
