package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/board"
	"exusiai.dev/shiftboard/internal/pkg/cache"
	"exusiai.dev/shiftboard/internal/pkg/observability"
	"exusiai.dev/shiftboard/internal/pkg/sberr"
	"exusiai.dev/shiftboard/internal/pkg/shiftday"
	"exusiai.dev/shiftboard/internal/pkg/stations"
	"exusiai.dev/shiftboard/internal/repo"
)

type ArchiveStore interface {
	Enabled() bool
	Ping(ctx context.Context) error
	GetDay(ctx context.Context, anchor time.Time, mode string) (*model.ArchivedDay, error)
	Exists(ctx context.Context, anchor time.Time, mode string) (bool, error)
	SaveDay(ctx context.Context, day *model.ArchivedDay, summaries []*model.ShiftSummary) (bool, error)
	ListSummaries(ctx context.Context, from, to time.Time, mode string) ([]*model.ShiftSummary, error)
}

type Snapshot struct {
	conf       *appconfig.Config
	schedule   *shiftday.Schedule
	grouping   *stations.Grouping
	goal       *Goal
	production *Production
	publisher  *Publisher
	archive    ArchiveStore

	// clock is read once per request that has no cycle instant of its own
	clock func() time.Time

	last   map[board.Mode]*cache.Singular[*model.Snapshot]
	shared *cache.Set[*model.Snapshot]
	days   *cache.Set[*model.Snapshot]
}

func NewSnapshot(conf *appconfig.Config, schedule *shiftday.Schedule, grouping *stations.Grouping, goal *Goal, production *Production, publisher *Publisher, archive ArchiveStore, client *redis.Client) *Snapshot {
	last := make(map[board.Mode]*cache.Singular[*model.Snapshot], len(board.Modes))
	for _, m := range board.Modes {
		last[m] = cache.NewSingular[*model.Snapshot]("snapshot#last:" + string(m))
	}
	return &Snapshot{
		conf:       conf,
		schedule:   schedule,
		grouping:   grouping,
		goal:       goal,
		production: production,
		publisher:  publisher,
		archive:    archive,
		clock:      time.Now,
		last:       last,
		shared:     cache.NewSet[*model.Snapshot](client, "shiftboard:snapshot"),
		days:       cache.NewSet[*model.Snapshot](client, "shiftboard:day"),
	}
}

func (s *Snapshot) Schedule() *shiftday.Schedule {
	return s.schedule
}

func (s *Snapshot) Grouping() *stations.Grouping {
	return s.grouping
}

// Refresh runs one cycle for mode at now. When the cycle fails and a previous
// snapshot of the mode exists, that snapshot is returned marked stale,
// together with the error.
func (s *Snapshot) Refresh(ctx context.Context, now time.Time, mode board.Mode) (*model.Snapshot, error) {
	start := time.Now()
	snap, err := s.live(ctx, now, mode)
	observability.CycleDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.CycleFailures.WithLabelValues(string(mode), failureReason(err)).Inc()
		return s.fallback(ctx, mode, err)
	}

	snap.ID = xid.New().String()
	s.last[mode].Set(snap, 0)
	_ = s.shared.Set(ctx, string(mode), snap, s.conf.SnapshotCacheTTL)

	observability.SnapshotStale.WithLabelValues(string(mode)).Set(0)
	observability.SnapshotGrandTotal.WithLabelValues(string(mode)).Set(float64(snap.GrandTotal))
	recordDiscarded(snap.Diagnostics)

	if _, err := s.publisher.Publish(ctx, snap); err != nil {
		log.Warn().
			Str("evt.name", "snapshot.publish").
			Err(err).
			Str("mode", string(mode)).
			Msg("failed to publish snapshot change")
	}
	return snap, nil
}

func (s *Snapshot) live(ctx context.Context, now time.Time, mode board.Mode) (*model.Snapshot, error) {
	if now.IsZero() || s.schedule == nil || s.schedule.Location == nil {
		return nil, board.ErrClockUnavailable
	}
	day := s.schedule.Resolve(now)

	table, err := s.goal.Table(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.production.Live(ctx, day, now)
	if err != nil {
		return nil, err
	}

	return board.Compute(board.Input{
		Now:             now,
		Schedule:        s.schedule,
		Day:             &day,
		Grouping:        s.grouping,
		Mode:            mode,
		PrefixSeparator: s.conf.PrefixSeparator,
		Events:          events,
		Goals:           table,
		Slots:           true,
	})
}

func (s *Snapshot) fallback(ctx context.Context, mode board.Mode, cause error) (*model.Snapshot, error) {
	prev, ok := s.last[mode].Get()
	if !ok {
		log.Error().
			Str("evt.name", "snapshot.unavailable").
			Err(cause).
			Str("mode", string(mode)).
			Msg("recompute failed and there is no previous snapshot to serve")
		return nil, cause
	}

	stale := *prev
	stale.Stale = true
	s.last[mode].Set(&stale, 0)
	_ = s.shared.Set(ctx, string(mode), &stale, s.conf.SnapshotCacheTTL)
	observability.SnapshotStale.WithLabelValues(string(mode)).Set(1)

	log.Warn().
		Str("evt.name", "snapshot.stale").
		Err(cause).
		Str("mode", string(mode)).
		Str("snapshot", stale.ID).
		Msg("recompute failed; serving the previous snapshot as stale")
	return &stale, cause
}

// Current returns the latest snapshot of mode, computing one when none exists
// yet or the one held has not been refreshed for two worker intervals. A stale
// snapshot is served without error.
func (s *Snapshot) Current(ctx context.Context, mode board.Mode) (*model.Snapshot, error) {
	now := s.clock()
	if s.shared.Enabled() {
		if snap, err := s.shared.Get(ctx, string(mode)); err == nil && s.fresh(snap, now) {
			return snap, nil
		}
	}
	if snap, ok := s.last[mode].Get(); ok && s.fresh(snap, now) {
		return snap, nil
	}

	snap, err := s.Refresh(ctx, now, mode)
	if snap != nil {
		return snap, nil
	}
	return nil, asBoardError(err)
}

func (s *Snapshot) fresh(snap *model.Snapshot, now time.Time) bool {
	if s.conf.WorkerInterval <= 0 {
		return true
	}
	return now.Sub(snap.ComputedAt) <= 2*s.conf.WorkerInterval
}

// ForDate returns the snapshot of the production day ending on date. Closed
// days are read from the archive when present and recomputed from history
// otherwise; the current day is served live.
func (s *Snapshot) ForDate(ctx context.Context, date string, mode board.Mode) (*model.Snapshot, error) {
	day, err := s.schedule.ParseDate(date)
	if err != nil {
		return nil, sberr.ErrInvalidReq.Msg("invalid date %q: expected YYYY-MM-DD", date)
	}

	now := s.clock()
	if now.Before(day.Start()) {
		return nil, sberr.ErrInvalidReq.Msg("production day %s has not started yet", date)
	}
	if day.Contains(now) {
		return s.Current(ctx, mode)
	}

	if snap, err := s.archived(ctx, day, mode); err == nil {
		return snap, nil
	} else if !errors.Is(err, sberr.ErrNotFound) {
		log.Warn().
			Str("evt.name", "archive.read").
			Err(err).
			Str("date", date).
			Msg("failed to read archived day; recomputing from history")
	}

	snap, _, err := s.days.MutexGetSet(ctx, date+":"+string(mode), func() (*model.Snapshot, error) {
		return s.History(ctx, day, mode, now)
	}, s.conf.SnapshotCacheTTL)
	if err != nil {
		return nil, asBoardError(err)
	}
	return snap, nil
}

// History computes the snapshot of a production day from the history
// endpoint, evaluated as seen at now.
func (s *Snapshot) History(ctx context.Context, day shiftday.ProductionDay, mode board.Mode, now time.Time) (*model.Snapshot, error) {
	table, err := s.goal.Table(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.production.Day(ctx, day)
	if err != nil {
		return nil, err
	}

	snap, err := board.Compute(board.Input{
		Now:             now,
		Schedule:        s.schedule,
		Day:             &day,
		Grouping:        s.grouping,
		Mode:            mode,
		PrefixSeparator: s.conf.PrefixSeparator,
		Events:          events,
		Goals:           table,
		Slots:           true,
	})
	if err != nil {
		return nil, err
	}
	snap.ID = xid.New().String()
	return snap, nil
}

func (s *Snapshot) archived(ctx context.Context, day shiftday.ProductionDay, mode board.Mode) (*model.Snapshot, error) {
	if !s.archive.Enabled() {
		return nil, sberr.ErrNotFound
	}
	row, err := s.archive.GetDay(ctx, day.Anchor, string(mode))
	if err != nil {
		return nil, err
	}
	return decodeArchived(row)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, board.ErrClockUnavailable):
		return "clock"
	case errors.Is(err, repo.ErrUpstream):
		return "upstream"
	default:
		return "compute"
	}
}

func asBoardError(err error) error {
	switch {
	case errors.Is(err, board.ErrClockUnavailable):
		return sberr.ErrClockUnavailable
	case errors.Is(err, repo.ErrUpstream):
		return sberr.ErrUpstreamUnavailable
	}
	return err
}

func recordDiscarded(d model.Diagnostics) {
	observability.EventsDiscarded.WithLabelValues("malformed").Add(float64(d.Malformed))
	observability.EventsDiscarded.WithLabelValues("excluded").Add(float64(d.Excluded))
	observability.EventsDiscarded.WithLabelValues("out_of_day").Add(float64(d.OutOfDay))
	observability.EventsDiscarded.WithLabelValues("ungrouped").Add(float64(d.Ungrouped))
}

// Adopt installs a snapshot computed by another instance as the latest of its
// mode, unless a newer one is already held.
func (s *Snapshot) Adopt(snap *model.Snapshot) bool {
	mode, err := board.ParseMode(snap.Mode)
	if err != nil {
		return false
	}
	if prev, ok := s.last[mode].Get(); ok && !snap.ComputedAt.After(prev.ComputedAt) {
		return false
	}
	s.last[mode].Set(snap, 0)
	return true
}
