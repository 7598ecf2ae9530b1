// Package events receives S3 bucket notifications over HTTP.
//
// # HTTP Endpoints
//
//   - POST /events : Accepts a notification payload ({"Records": [...]}) as sent by
//     MinIO webhook targets or forwarded S3 events, logs every record and returns
//     the classified records.
package events
