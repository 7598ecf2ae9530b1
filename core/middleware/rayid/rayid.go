package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header carries the ray id on requests and responses.
const Header = "X-Ray-ID"

// New returns a middleware that assigns every request a ray id, reusing an
// incoming X-Ray-ID header when present. The id is stored in Locals("ray_id").
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("ray_id", id)
		c.Set(Header, id)
		return c.Next()
	}
}
