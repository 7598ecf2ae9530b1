// Package documents stores images and documents in a bucket under typed keys.
//
// A Key is a kind (image, document) plus an id and is stored as "<kind>/<id>".
// The Service wraps storage.Storage[Key]; the Handler exposes it over HTTP.
//
// # HTTP Endpoints
//
//   - GET /documents : Lists keys (supports ?kind=).
//   - DELETE /documents/:kind : Deletes every document of a kind (requires ?confirm=true).
//   - GET /documents/:kind/:id : Returns content type and metadata.
//   - GET /documents/:kind/:id/exists : Reports whether the document exists.
//   - GET /documents/:kind/:id/content : Returns the body. Metadata is sent as X-Meta-* headers.
//   - PUT /documents/:kind/:id : Stores the body. Content-Type is required.
//   - DELETE /documents/:kind/:id : Deletes the document.
//   - GET /documents/:kind/:id/download-url : Presigned GET URL (supports ?expires= seconds).
//   - POST /documents/:kind/:id/upload-url : Presigned PUT URL for {contentType, metadata, expiresIn}.
//
// Presigned URLs let clients transfer bytes directly with the object store.
// Upload clients must send the headers returned with the URL.
package documents
