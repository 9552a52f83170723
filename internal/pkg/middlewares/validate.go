package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/shiftboard/internal/util/rekuest"
)

func ValidateDateAsParam(c *fiber.Ctx) error {
	if err := rekuest.ValidDate(c.Params("date")); err != nil {
		return err
	}
	return c.Next()
}
