package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/shiftboard/internal/util/rekuest"
)

const LocalsQuery = "query"

// InjectValidQuery parses and validates the query string into a T, stored
// under LocalsQuery for the handler.
func InjectValidQuery[T any]() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		dest := new(T)
		if err := rekuest.ValidQuery(ctx, dest); err != nil {
			return err
		}
		ctx.Locals(LocalsQuery, dest)
		return ctx.Next()
	}
}
