package v1

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/board"
	"exusiai.dev/shiftboard/internal/pkg/cachectrl"
	"exusiai.dev/shiftboard/internal/pkg/middlewares"
	"exusiai.dev/shiftboard/internal/pkg/sberr"
	"exusiai.dev/shiftboard/internal/server/svr"
	"exusiai.dev/shiftboard/internal/service"
)

type SnapshotQuery struct {
	Mode  string `query:"mode" validate:"omitempty,caseinsensitiveoneof=machine station prefix"`
	Slots bool   `query:"slots"`
}

type SnapshotController struct {
	fx.In

	SnapshotService *service.Snapshot
}

func RegisterSnapshot(v1 *svr.V1, c SnapshotController) {
	v1.Get("/snapshot", middlewares.InjectValidQuery[SnapshotQuery](), c.GetCurrent)
	v1.Get("/snapshot/:date", middlewares.ValidateDateAsParam, middlewares.InjectValidQuery[SnapshotQuery](), c.GetByDate)
}

func (c *SnapshotController) GetCurrent(ctx *fiber.Ctx) error {
	q := ctx.Locals(middlewares.LocalsQuery).(*SnapshotQuery)
	mode, err := parseMode(q.Mode)
	if err != nil {
		return err
	}

	snap, err := c.SnapshotService.Current(ctx.UserContext(), mode)
	if err != nil {
		return err
	}

	cachectrl.OptOut(ctx)
	return ctx.JSON(present(snap, q.Slots))
}

func (c *SnapshotController) GetByDate(ctx *fiber.Ctx) error {
	q := ctx.Locals(middlewares.LocalsQuery).(*SnapshotQuery)
	mode, err := parseMode(q.Mode)
	if err != nil {
		return err
	}

	snap, err := c.SnapshotService.ForDate(ctx.UserContext(), ctx.Params("date"), mode)
	if err != nil {
		return err
	}

	if allCompleted(snap) {
		cachectrl.OptIn(ctx, snap.ComputedAt, time.Hour)
	} else {
		cachectrl.OptOut(ctx)
	}
	return ctx.JSON(present(snap, q.Slots))
}

func parseMode(s string) (board.Mode, error) {
	mode, err := board.ParseMode(s)
	if err != nil {
		return "", sberr.ErrInvalidReq.Msg("invalid mode %q: expected one of machine, station or prefix", s)
	}
	return mode, nil
}

func present(snap *model.Snapshot, slots bool) *model.Snapshot {
	if slots {
		return snap
	}
	return snap.WithoutSlots()
}

func allCompleted(snap *model.Snapshot) bool {
	for _, sh := range snap.Day.Shifts {
		if sh.State != model.ShiftCompleted {
			return false
		}
	}
	return !snap.Stale
}
