package documents

import (
	"bytes"
	"errors"
	"time"

	"s3-utils/core/logger"
	"s3-utils/core/storage"
	"s3-utils/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MetaHeaderPrefix marks request and response headers carrying object metadata.
const MetaHeaderPrefix = "X-Meta-"

// maxExpiry is the longest lifetime S3 signature V4 allows.
const maxExpiry = 7 * 24 * time.Hour

// Handler handles HTTP requests for documents.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the document routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/documents")
	group.Get("/", h.HandleList)
	group.Delete("/:kind", h.HandleDeleteKind)
	group.Get("/:kind/:id", h.HandleInfo)
	group.Put("/:kind/:id", h.HandlePut)
	group.Delete("/:kind/:id", h.HandleDelete)
	group.Get("/:kind/:id/exists", h.HandleExists)
	group.Get("/:kind/:id/content", h.HandleContent)
	group.Get("/:kind/:id/download-url", h.HandleDownloadURL)
	group.Post("/:kind/:id/upload-url", h.HandleUploadURL)
}

// UploadURLRequest is the body of an upload URL request.
type UploadURLRequest struct {
	ContentType string            `json:"contentType"`
	Metadata    map[string]string `json:"metadata"`
	ExpiresIn   int               `json:"expiresIn"`
}

// ListResponse wraps a key listing.
type ListResponse struct {
	Keys []Key `json:"keys"`
}

// ExistsResponse reports whether a document is stored.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// SignedURLResponse carries a presigned URL and the headers a client must send with it.
type SignedURLResponse struct {
	URL       string            `json:"url"`
	ExpiresIn int               `json:"expiresIn"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// HandleList lists document keys, optionally filtered by ?kind=.
// @Summary List Documents
// @Description Lists the keys of all stored documents, optionally restricted to one kind.
// @Tags documents
// @Produce json
// @Param kind query string false "Document kind (image or document)"
// @Success 200 {object} ListResponse
// @Failure 400 {object} map[string]string "Invalid kind"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security ApiKeyAuth
// @Router /documents [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	var kind Kind
	if q := c.Query("kind"); q != "" {
		k, err := ParseKind(q)
		if err != nil {
			return h.fail(c, err)
		}
		kind = k
	}
	keys, err := h.service.List(c.Context(), kind)
	if err != nil {
		return h.fail(c, err)
	}
	if keys == nil {
		keys = []Key{}
	}
	return c.JSON(ListResponse{Keys: keys})
}

// HandleInfo returns content type and metadata of a document.
// @Summary Get Document Info
// @Description Returns the content type and metadata of a document without its body.
// @Tags documents
// @Produce json
// @Param kind path string true "Document kind (image or document)"
// @Param id path string true "Document ID"
// @Success 200 {object} storage.ObjectInfo
// @Failure 400 {object} map[string]string "Invalid key"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security ApiKeyAuth
// @Router /documents/{kind}/{id} [get]
func (h *Handler) HandleInfo(c *fiber.Ctx) error {
	key, err := keyFrom(c)
	if err != nil {
		return h.fail(c, err)
	}
	info, err := h.service.Info(c.Context(), key)
	if err != nil {
		return h.fail(c, err)
	}
	if info == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "object has no content type"})
	}
	return c.JSON(info)
}

// HandleExists reports whether a document is stored.
// @Summary Check Document Exists
// @Tags documents
// @Produce json
// @Param kind path string true "Document kind (image or document)"
// @Param id path string true "Document ID"
// @Success 200 {object} ExistsResponse
// @Failure 400 {object} map[string]string "Invalid key"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security ApiKeyAuth
// @Router /documents/{kind}/{id}/exists [get]
func (h *Handler) HandleExists(c *fiber.Ctx) error {
	key, err := keyFrom(c)
	if err != nil {
		return h.fail(c, err)
	}
	exists, err := h.service.Exists(c.Context(), key)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ExistsResponse{Exists: exists})
}

// HandleContent returns the document body with its content type and metadata headers.
// @Summary Download Document
// @Description Streams the stored body. Metadata is returned as X-Meta-* headers.
// @Tags documents
// @Produce octet-stream
// @Param kind path string true "Document kind (image or document)"
// @Param id path string true "Document ID"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid key"
// @Failure 404 {object} map[string]string "Not found"
// @Security ApiKeyAuth
// @Router /documents/{kind}/{id}/content [get]
func (h *Handler) HandleContent(c *fiber.Ctx) error {
	key, err := keyFrom(c)
	if err != nil {
		return h.fail(c, err)
	}
	obj, err := h.service.Get(c.Context(), key)
	if err != nil {
		return h.fail(c, err)
	}
	if obj == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "object has no content type"})
	}
	c.Set(fiber.HeaderContentType, obj.ContentType)
	for k, v := range obj.Metadata {
		c.Set(MetaHeaderPrefix+k, v)
	}
	return c.Send(obj.Data)
}

// HandlePut stores the request body. Content-Type is required; X-Meta-* headers become metadata.
// @Summary Store Document
// @Description Stores the request body under the key, replacing any existing document.
// @Tags documents
// @Accept octet-stream
// @Param kind path string true "Document kind (image or document)"
// @Param id path string true "Document ID"
// @Param Content-Type header string true "Content type of the document"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid key or object"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security ApiKeyAuth
// @Router /documents/{kind}/{id} [put]
func (h *Handler) HandlePut(c *fiber.Ctx) error {
	key, err := keyFrom(c)
	if err != nil {
		return h.fail(c, err)
	}
	obj := storage.Object{
		ObjectInfo: storage.ObjectInfo{
			ContentType: c.Get(fiber.HeaderContentType),
			Metadata:    utils.HeaderValues(c.GetReqHeaders(), MetaHeaderPrefix),
		},
		Data: bytes.Clone(c.Body()),
	}
	if err := h.service.Put(c.Context(), key, obj); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDelete removes a document.
// @Summary Delete Document
// @Tags documents
// @Param kind path string true "Document kind (image or document)"
// @Param id path string true "Document ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid key"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security ApiKeyAuth
// @Router /documents/{kind}/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	key, err := keyFrom(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := h.service.Delete(c.Context(), key); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteKind removes every document of a kind. Requires ?confirm=true.
// @Summary Delete Documents Of Kind
// @Description Removes every document of the kind page by page. Concurrent writers to the same kind may keep it running.
// @Tags documents
// @Param kind path string true "Document kind (image or document)"
// @Param confirm query boolean true "Must be true"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid kind or missing confirmation"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Security ApiKeyAuth
// @Router /documents/{kind} [delete]
func (h *Handler) HandleDeleteKind(c *fiber.Ctx) error {
	kind, err := ParseKind(c.Params("kind"))
	if err != nil {
		return h.fail(c, err)
	}
	if !utils.ToBool(c.Query("confirm")) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bulk delete requires confirm=true"})
	}
	if err := h.service.DeleteKind(c.Context(), kind); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDownloadURL returns a presigned GET URL. ?expires= sets the lifetime in seconds.
// @Summary Presign Download
// @Tags documents
// @Produce json
// @Param kind path string true "Document kind (image or document)"
// @Param id path string true "Document ID"
// @Param expires query int false "Lifetime in seconds (default 60, max 604800)"
// @Success 200 {object} SignedURLResponse
// @Failure 400 {object} map[string]string "Invalid key or expiry"
// @Security ApiKeyAuth
// @Router /documents/{kind}/{id}/download-url [get]
func (h *Handler) HandleDownloadURL(c *fiber.Ctx) error {
	key, err := keyFrom(c)
	if err != nil {
		return h.fail(c, err)
	}
	expires, err := expiryFrom(c.QueryInt("expires", 0))
	if err != nil {
		return h.fail(c, err)
	}
	u, err := h.service.DownloadURL(c.Context(), key, expires)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(SignedURLResponse{URL: u, ExpiresIn: int(expires.Seconds())})
}

// HandleUploadURL returns a presigned PUT URL bound to the requested content type and metadata.
// @Summary Presign Upload
// @Description The upload must send exactly the returned headers.
// @Tags documents
// @Accept json
// @Produce json
// @Param kind path string true "Document kind (image or document)"
// @Param id path string true "Document ID"
// @Param request body UploadURLRequest true "Signed content type and metadata"
// @Success 200 {object} SignedURLResponse
// @Failure 400 {object} map[string]string "Invalid key, object or expiry"
// @Security ApiKeyAuth
// @Router /documents/{kind}/{id}/upload-url [post]
func (h *Handler) HandleUploadURL(c *fiber.Ctx) error {
	key, err := keyFrom(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req UploadURLRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	expires, err := expiryFrom(req.ExpiresIn)
	if err != nil {
		return h.fail(c, err)
	}
	info := storage.ObjectInfo{ContentType: req.ContentType, Metadata: req.Metadata}
	u, err := h.service.UploadURL(c.Context(), key, info, expires)
	if err != nil {
		return h.fail(c, err)
	}

	headers := make(map[string]string)
	for name, values := range storage.SignedHeaders(info) {
		headers[name] = values[0]
	}
	return c.JSON(SignedURLResponse{URL: u, ExpiresIn: int(expires.Seconds()), Headers: headers})
}

func keyFrom(c *fiber.Ctx) (Key, error) {
	return NewKey(c.Params("kind"), c.Params("id"))
}

var errExpiry = errors.New("expires must be between 1 second and 7 days")

func expiryFrom(seconds int) (time.Duration, error) {
	if seconds == 0 {
		return storage.DefaultExpiry, nil
	}
	d := time.Duration(seconds) * time.Second
	if d < time.Second || d > maxExpiry {
		return 0, errExpiry
	}
	return d, nil
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithRayID(h.service.logger, c).Error("Document request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrInvalidKeyFormat), errors.Is(err, storage.ErrInvalidObject), errors.Is(err, errExpiry):
		return fiber.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, storage.ErrRateLimited), errors.Is(err, storage.ErrBackendUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, storage.ErrPermissionDenied):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
