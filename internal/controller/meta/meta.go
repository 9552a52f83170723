package meta

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"go.uber.org/fx"

	"exusiai.dev/shiftboard/internal/pkg/bininfo"
	"exusiai.dev/shiftboard/internal/server/svr"
	"exusiai.dev/shiftboard/internal/service"
)

type Meta struct {
	fx.In

	HealthService *service.Health
}

func RegisterMeta(meta *svr.Meta, c Meta) {
	meta.Get("/bininfo", c.BinInfo)

	// load balancers hit this every few seconds from every node
	meta.Get("/health", cache.New(cache.Config{Expiration: time.Second}), c.Health)
}

func (c *Meta) BinInfo(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"version": bininfo.Version,
		"build":   bininfo.BuildTime,
	})
}

// Health answers 503 with the per-component report when the lab API or any
// configured backing store is unreachable.
func (c *Meta) Health(ctx *fiber.Ctx) error {
	components, err := c.HealthService.Check(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":     "degraded",
			"components": components,
		})
	}

	return ctx.JSON(fiber.Map{
		"status":     "ok",
		"components": components,
	})
}
