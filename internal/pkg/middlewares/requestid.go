package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/shiftboard/internal/pkg/flog"
)

const LocalsRequestID = "requestId"

// RequestID exposes the request id to handlers through fiber locals.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := flog.IDFromFiberCtx(c); ok {
			c.Locals(LocalsRequestID, id.String())
		}
		return c.Next()
	}
}
