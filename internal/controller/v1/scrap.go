package v1

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/cachectrl"
	"exusiai.dev/shiftboard/internal/server/svr"
	"exusiai.dev/shiftboard/internal/service"
	"exusiai.dev/shiftboard/internal/util/rekuest"
)

type ScrapController struct {
	fx.In

	ScrapService *service.Scrap
}

func RegisterScrap(v1 *svr.V1, c ScrapController) {
	v1.Get("/scrap", c.GetScrap)
}

// GetScrap reports scrap against production for the production day ending on
// ?date=, or the running one.
func (c *ScrapController) GetScrap(ctx *fiber.Ctx) error {
	var (
		r   *model.ScrapReport
		err error
	)
	if date := ctx.Query("date"); date != "" {
		if err := rekuest.ValidDate(date); err != nil {
			return err
		}
		r, err = c.ScrapService.ForDate(ctx.UserContext(), date)
	} else {
		r, err = c.ScrapService.Current(ctx.UserContext())
	}
	if err != nil {
		return err
	}

	if r.ComputedAt.Before(r.Day.End) {
		cachectrl.OptOut(ctx)
	} else {
		cachectrl.OptIn(ctx, r.ComputedAt, time.Hour)
	}
	return ctx.JSON(r)
}
