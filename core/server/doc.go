// Package server holds the HTTP server configuration.
//
// The Config struct defines the HTTP port, the API key protecting every route
// and the maximum accepted request body, used when uploading objects through
// the application instead of a presigned URL.
package server
