package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"exusiai.dev/shiftboard/internal/pkg/flog"
)

const RequestIDHeader = "X-Shiftboard-Request-ID"

func Logger(app *fiber.App) {
	app.Use(
		flog.Inject(log.With().Logger()),
		flog.RequestID("request_id", RequestIDHeader),
		flog.RequestFields(),
		requestLogger(),
	)
}

func requestLogger() fiber.Handler {
	return flog.AccessHandler(func(ctx *fiber.Ctx, duration time.Duration) {
		flog.FromFiberCtx(ctx).Info().
			Str("component", "httpreq").
			Int("status", ctx.Response().StatusCode()).
			Int("size", len(ctx.Response().Body())).
			Dur("duration", duration).
			Msg("received request")
	})
}
