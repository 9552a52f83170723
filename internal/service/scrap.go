package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/cache"
	"exusiai.dev/shiftboard/internal/pkg/sberr"
	"exusiai.dev/shiftboard/internal/pkg/scrap"
	"exusiai.dev/shiftboard/internal/pkg/shiftday"
)

type ScrapSource interface {
	ScrapCounts(ctx context.Context) ([]model.ProductionEvent, error)
	ScrapProduction(ctx context.Context) ([]model.ProductionEvent, error)
	ScrapReasons(ctx context.Context) ([]model.ScrapReason, error)
}

// Scrap serves scrap reports. Reports are computed on request and shared
// through Redis for ScrapCacheTTL.
type Scrap struct {
	conf     *appconfig.Config
	schedule *shiftday.Schedule
	source   ScrapSource

	clock func() time.Time

	reports *cache.Set[*model.ScrapReport]
}

func NewScrap(conf *appconfig.Config, schedule *shiftday.Schedule, source ScrapSource, client *redis.Client) *Scrap {
	return &Scrap{
		conf:     conf,
		schedule: schedule,
		source:   source,
		clock:    time.Now,
		reports:  cache.NewSet[*model.ScrapReport](client, "shiftboard:scrap"),
	}
}

// Current returns the report of the running production day.
func (s *Scrap) Current(ctx context.Context) (*model.ScrapReport, error) {
	now := s.clock()
	if now.IsZero() || s.schedule == nil || s.schedule.Location == nil {
		return nil, sberr.ErrClockUnavailable
	}
	return s.report(ctx, s.schedule.Resolve(now), now)
}

// ForDate returns the report of the production day ending on date. Scrap
// reasons are only known for the running day; other days come without them.
func (s *Scrap) ForDate(ctx context.Context, date string) (*model.ScrapReport, error) {
	day, err := s.schedule.ParseDate(date)
	if err != nil {
		return nil, sberr.ErrInvalidReq.Msg("invalid date %q: expected YYYY-MM-DD", date)
	}
	now := s.clock()
	if now.Before(day.Start()) {
		return nil, sberr.ErrInvalidReq.Msg("production day %s has not started yet", date)
	}
	return s.report(ctx, day, now)
}

func (s *Scrap) report(ctx context.Context, day shiftday.ProductionDay, now time.Time) (*model.ScrapReport, error) {
	r, _, err := s.reports.MutexGetSet(ctx, day.Date(), func() (*model.ScrapReport, error) {
		return s.compute(ctx, day, now)
	}, s.conf.ScrapCacheTTL)
	if err != nil {
		return nil, asBoardError(err)
	}
	return r, nil
}

func (s *Scrap) compute(ctx context.Context, day shiftday.ProductionDay, now time.Time) (*model.ScrapReport, error) {
	in := scrap.Input{Now: now, Day: day}

	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		in.Scrap, err = s.source.ScrapCounts(ectx)
		return err
	})
	eg.Go(func() (err error) {
		in.Production, err = s.source.ScrapProduction(ectx)
		return err
	})
	if day.Contains(now) {
		eg.Go(func() (err error) {
			in.Reasons, err = s.source.ScrapReasons(ectx)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	r, err := scrap.Compute(in)
	if err != nil {
		return nil, err
	}
	recordDiscarded(r.ScrapDiagnostics)
	return r, nil
}
