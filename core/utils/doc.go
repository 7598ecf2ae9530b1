// Package utils provides small helpers shared by the storage core and the HTTP
// features: metadata key normalisation, header prefix extraction and loose
// boolean parsing.
package utils
