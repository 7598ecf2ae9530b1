package cmd

import (
	"s3-utils/core/loader"
	"s3-utils/core/logger"
	"s3-utils/core/middleware/auth"
	"s3-utils/core/middleware/rayid"
	"s3-utils/core/server"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "s3-utils/docs/swagger"
)

// newServer builds the fiber app with the middleware chain and loads the
// enabled features. It returns the names of the loaded features.
func newServer(cfg server.Config, logg *zap.Logger, features ...loader.Feature) (*fiber.App, []string, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             cfg.BodyLimit(),
	})

	mgr := loader.NewManager()
	for _, f := range features {
		mgr.Register(f)
	}

	// RayID first so every log line carries it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// API docs stay public
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(auth.New(auth.Config{ApiKey: cfg.ApiKey}))

	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return nil, loaded, err
	}
	return app, loaded, nil
}
