package v1

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/shiftboard/internal/pkg/middlewares"
	"exusiai.dev/shiftboard/internal/server/svr"
	"exusiai.dev/shiftboard/internal/service"
)

type SummaryQuery struct {
	From string `query:"from" validate:"required,isodate"`
	To   string `query:"to" validate:"required,isodate"`
	Mode string `query:"mode" validate:"omitempty,caseinsensitiveoneof=machine station prefix"`
}

type SummaryController struct {
	fx.In

	ArchiveService *service.Archiver
}

func RegisterSummary(v1 *svr.V1, c SummaryController) {
	v1.Get("/summaries", middlewares.InjectValidQuery[SummaryQuery](), c.GetSummaries)
}

func (c *SummaryController) GetSummaries(ctx *fiber.Ctx) error {
	q := ctx.Locals(middlewares.LocalsQuery).(*SummaryQuery)
	mode, err := parseMode(q.Mode)
	if err != nil {
		return err
	}

	rows, err := c.ArchiveService.Summaries(ctx.UserContext(), q.From, q.To, mode)
	if err != nil {
		return err
	}
	return ctx.JSON(rows)
}
