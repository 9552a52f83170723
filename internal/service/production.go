package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/async"
	"exusiai.dev/shiftboard/internal/pkg/shiftday"
)

type RecordSource interface {
	TodayRecords(ctx context.Context, source string) ([]model.ProductionEvent, error)
	HistoryRecords(ctx context.Context, year int, month time.Month, day int) ([]model.ProductionEvent, error)
}

type Production struct {
	conf   *appconfig.Config
	source RecordSource
}

func NewProduction(conf *appconfig.Config, source RecordSource) *Production {
	return &Production{
		conf:   conf,
		source: source,
	}
}

// Live returns the records of the production day containing now. The
// current-day endpoints only cover the current calendar date, so the part of
// the day before midnight is read from history.
func (s *Production) Live(ctx context.Context, day shiftday.ProductionDay, now time.Time) ([]model.ProductionEvent, error) {
	today, err := async.FlatMap(ctx, s.conf.UpstreamSources, s.conf.UpstreamConcurrency, func(ctx context.Context, source string) ([]model.ProductionEvent, error) {
		return s.source.TodayRecords(ctx, strings.TrimSpace(source))
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch current day records")
	}

	local := now.In(day.Anchor.Location())
	before := lo.Filter(calendarDates(day), func(d time.Time, _ int) bool {
		return d.Before(time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location()))
	})
	earlier, err := s.history(ctx, before)
	if err != nil {
		return nil, err
	}
	return append(earlier, today...), nil
}

// Day returns the records of a production day from the history endpoint.
func (s *Production) Day(ctx context.Context, day shiftday.ProductionDay) ([]model.ProductionEvent, error) {
	return s.history(ctx, calendarDates(day))
}

func (s *Production) history(ctx context.Context, dates []time.Time) ([]model.ProductionEvent, error) {
	events, err := async.FlatMap(ctx, dates, s.conf.UpstreamConcurrency, func(ctx context.Context, d time.Time) ([]model.ProductionEvent, error) {
		return s.source.HistoryRecords(ctx, d.Year(), d.Month(), d.Day())
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch history records")
	}
	return events, nil
}

// calendarDates lists the local midnights of the calendar dates a production
// day overlaps, in order.
func calendarDates(day shiftday.ProductionDay) []time.Time {
	first := day.Start()
	last := day.End().Add(-time.Nanosecond)
	loc := first.Location()

	var dates []time.Time
	for d := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc); !d.After(last); d = time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, loc) {
		dates = append(dates, d)
	}
	return dates
}
