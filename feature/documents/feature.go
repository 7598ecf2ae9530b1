package documents

import (
	"s3-utils/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature exposes documents over HTTP.
type Feature struct {
	service *Service
}

// NewFeature creates the documents feature.
func NewFeature(client storage.Client, bucket string, logger *zap.Logger, opts ...storage.Option) *Feature {
	return &Feature{service: NewService(client, bucket, logger, opts...)}
}

func (f *Feature) Name() string { return "documents" }

func (f *Feature) IsEnabled() bool { return true }

// Load registers the document routes.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
