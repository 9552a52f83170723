package service

import (
	"context"
	"strings"

	"github.com/ahmetb/go-linq/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/async"
	"exusiai.dev/shiftboard/internal/pkg/cache"
	"exusiai.dev/shiftboard/internal/pkg/goals"
	"exusiai.dev/shiftboard/internal/pkg/stations"
)

type GoalSource interface {
	Goals(ctx context.Context, family string) ([]model.GoalEntry, error)
}

type Goal struct {
	conf     *appconfig.Config
	source   GoalSource
	grouping *stations.Grouping

	table *cache.Singular[*goals.Table]
}

func NewGoal(conf *appconfig.Config, source GoalSource, grouping *stations.Grouping) *Goal {
	return &Goal{
		conf:     conf,
		source:   source,
		grouping: grouping,
		table:    cache.NewSingular[*goals.Table]("goals#table"),
	}
}

// Table returns the merged goal table of every configured family. Tables are
// cached for GoalCacheTTL, but only when every family could be fetched; a
// partial table is returned uncached so the missing families are retried on
// the next call.
func (s *Goal) Table(ctx context.Context) (*goals.Table, error) {
	if t, ok := s.table.Get(); ok {
		return t, nil
	}

	families := s.conf.GoalFamilies
	results, err := async.Map(ctx, families, s.conf.UpstreamConcurrency, func(ctx context.Context, family string) ([]model.GoalEntry, error) {
		return s.source.Goals(ctx, strings.TrimSpace(family))
	})

	var entries []model.GoalEntry
	// results keep the family order, so later families override earlier ones
	linq.From(results).
		SelectManyT(func(e []model.GoalEntry) linq.Query { return linq.From(e) }).
		ToSlice(&entries)

	table := goals.NewTable(s.grouping, entries...)
	if err != nil {
		if table.Len() == 0 {
			return nil, errors.Wrap(err, "failed to fetch goals")
		}
		log.Warn().
			Str("evt.name", "goals.partial").
			Err(err).
			Int("entries", table.Len()).
			Msg("some goal families could not be fetched; serving a partial goal table")
		return table, nil
	}

	s.table.Set(table, s.conf.GoalCacheTTL)
	return table, nil
}

// Invalidate drops the cached table; the next Table call fetches every family.
func (s *Goal) Invalidate() {
	s.table.Delete()
}
