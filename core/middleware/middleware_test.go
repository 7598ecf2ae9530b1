package middleware_test

import (
	"net/http/httptest"
	"testing"

	"s3-utils/core/middleware/auth"
	"s3-utils/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(apiKey string) *fiber.App {
	app := fiber.New()
	app.Use(rayid.New())
	app.Use(auth.New(auth.Config{ApiKey: apiKey}))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("ray_id").(string))
	})
	return app
}

func TestRayID(t *testing.T) {
	app := newApp("")

	t.Run("Generated", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Header.Get(rayid.Header))
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(rayid.Header, "ray-1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "ray-1", resp.Header.Get(rayid.Header))
	})
}

func TestAuth(t *testing.T) {
	app := newApp("secret")

	t.Run("Missing", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Valid", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(auth.Header, "secret")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
