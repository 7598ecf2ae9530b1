package events

import (
	"s3-utils/core/event"
	"s3-utils/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Listener receives classified records. It runs inside the request.
type Listener func(event.Record)

// Handler receives bucket notifications.
type Handler struct {
	logger    *zap.Logger
	listeners []Listener
}

// NewHandler creates a notification handler calling listeners for every record.
func NewHandler(logger *zap.Logger, listeners ...Listener) *Handler {
	return &Handler{logger: logger, listeners: listeners}
}

// RegisterRoutes registers the notification route.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/events", h.HandleNotification)
}

// RecordsResponse lists the classified records of a notification.
type RecordsResponse struct {
	Records []event.Record `json:"records"`
}

// HandleNotification classifies the records of an S3 notification payload.
// @Summary Receive Bucket Notification
// @Description Classifies every record of an S3 event notification as created, removed or other.
// @Tags events
// @Accept json
// @Produce json
// @Param payload body object true "S3 notification payload with a Records array"
// @Success 200 {object} RecordsResponse
// @Failure 400 {object} map[string]string "Malformed payload"
// @Security ApiKeyAuth
// @Router /events [post]
func (h *Handler) HandleNotification(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	records, err := event.ParsePayload(c.Body())
	if err != nil {
		l.Warn("Rejected bucket notification", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	for _, r := range records {
		l.Info("Bucket event",
			zap.String("type", string(r.Type)),
			zap.String("bucket", r.Bucket),
			zap.String("key", r.Key),
			zap.Int64("size", r.Size),
		)
		for _, fn := range h.listeners {
			fn(r)
		}
	}
	return c.JSON(RecordsResponse{Records: records})
}

// Feature exposes the notification webhook.
type Feature struct {
	handler *Handler
}

// NewFeature creates the events feature.
func NewFeature(logger *zap.Logger, listeners ...Listener) *Feature {
	return &Feature{handler: NewHandler(logger, listeners...)}
}

func (f *Feature) Name() string { return "events" }

func (f *Feature) IsEnabled() bool { return true }

// Load registers the notification route.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
