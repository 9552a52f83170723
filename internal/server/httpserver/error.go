package httpserver

import (
	"errors"
	"strconv"

	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/shiftboard/internal/pkg/flog"
	"exusiai.dev/shiftboard/internal/pkg/sberr"
)

func handleCustomError(ctx *fiber.Ctx, e *sberr.BoardError) error {
	flog.WarnFrom(ctx).
		Err(e).
		Str("code", e.ErrorCode).
		Msg(e.Message)

	body := fiber.Map{
		"code":    e.ErrorCode,
		"message": e.Message,
	}

	if e.Extras != nil && len(*e.Extras) > 0 {
		for k, v := range *e.Extras {
			body[k] = v
		}
	}

	return ctx.Status(e.StatusCode).JSON(body)
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var be *sberr.BoardError
	if errors.As(err, &be) {
		return handleCustomError(ctx, be)
	}

	re := *sberr.ErrInternalError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		re.StatusCode = fe.Code
		re.ErrorCode = "UNKNOWN_ERROR"
		re.Message = fe.Message
	}

	flog.ErrorFrom(ctx).
		Stack().
		Err(err).
		Int("status", re.StatusCode).
		Msg("unhandled error")

	if re.StatusCode >= fiber.StatusInternalServerError {
		if hub := fibersentry.GetHubFromContext(ctx); hub != nil {
			hub.Scope().SetTag("status", strconv.Itoa(re.StatusCode))
			hub.CaptureException(err)
		}
	}

	return handleCustomError(ctx, &re)
}
