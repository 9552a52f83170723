package v1

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"go.uber.org/fx"

	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/sberr"
	"exusiai.dev/shiftboard/internal/pkg/shiftday"
	"exusiai.dev/shiftboard/internal/pkg/stations"
	"exusiai.dev/shiftboard/internal/server/svr"
	"exusiai.dev/shiftboard/internal/util/rekuest"
)

type ScheduleResponse struct {
	Version    string        `json:"version"`
	Timezone   string        `json:"timezone"`
	Date       string        `json:"date"`
	Day        model.DayView `json:"day"`
	Exclusions []string      `json:"exclusions"`
	Rule       string        `json:"rule,omitempty"`
}

type ScheduleController struct {
	fx.In

	Schedule *shiftday.Schedule
}

func RegisterSchedule(v1 *svr.V1, c ScheduleController) {
	v1.Get("/schedule", c.GetSchedule)
}

// GetSchedule resolves the production day ending on ?date=, or the current
// one when no date is given.
func (c *ScheduleController) GetSchedule(ctx *fiber.Ctx) error {
	now := time.Now()
	if c.Schedule == nil || c.Schedule.Location == nil {
		return sberr.ErrClockUnavailable
	}

	day := c.Schedule.Resolve(now)
	if date := ctx.Query("date"); date != "" {
		if err := rekuest.ValidDate(date); err != nil {
			return err
		}
		var err error
		if day, err = c.Schedule.ParseDate(date); err != nil {
			return sberr.ErrInvalidReq.Msg("invalid date %q: expected YYYY-MM-DD", date)
		}
	}

	return ctx.JSON(Describe(c.Schedule, day, now))
}

func Describe(s *shiftday.Schedule, day shiftday.ProductionDay, now time.Time) *ScheduleResponse {
	r := &ScheduleResponse{
		Version:  s.Version,
		Timezone: s.Location.String(),
		Date:     day.Date(),
		Day:      day.View(now),
		Exclusions: lo.Map(s.Exclusions, func(w shiftday.ClockWindow, _ int) string {
			return w.String()
		}),
	}
	if s.Rule != nil {
		r.Rule = s.Rule.Source
	}
	return r
}

type StationsController struct {
	fx.In

	Grouping *stations.Grouping
}

func RegisterStations(v1 *svr.V1, c StationsController) {
	v1.Get("/stations", c.GetStations)
}

func (c *StationsController) GetStations(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Grouping)
}
