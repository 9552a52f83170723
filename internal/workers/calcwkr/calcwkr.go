package calcwkr

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/board"
	"exusiai.dev/shiftboard/internal/pkg/shiftday"
	"exusiai.dev/shiftboard/internal/service"
)

// wakeMargin is waited past an anchor so the cycle resolves the new day.
const wakeMargin = time.Second

type WorkerDeps struct {
	fx.In
	Config   *appconfig.Config
	Snapshot *service.Snapshot
	Archiver *service.Archiver
	Goal     *service.Goal
	RedSync  *redsync.Redsync
}

type Refresher interface {
	Refresh(ctx context.Context, now time.Time, mode board.Mode) (*model.Snapshot, error)
	Schedule() *shiftday.Schedule
}

// GoalCache drops cached goal tables so targets edited upstream during a day
// apply from the next one.
type GoalCache interface {
	Invalidate()
}

type DayArchiver interface {
	Pending(ctx context.Context, day shiftday.ProductionDay, mode board.Mode, now time.Time) (bool, error)
	ArchiveDay(ctx context.Context, day shiftday.ProductionDay, mode board.Mode, now time.Time) (bool, error)
}

type Worker struct {
	// count counts cycles worker has completed so far
	count int

	// interval describes the interval in-between cycles when no anchor is crossed
	interval time.Duration

	// timeout bounds a single mode's refresh
	timeout time.Duration

	modes []board.Mode
	clock func() time.Time

	// anchor of the production day seen by the last cycle
	anchor time.Time

	refresher Refresher
	goals     GoalCache
	archiver  DayArchiver
	rs        *redsync.Redsync
}

func New(conf *appconfig.Config, refresher Refresher, goals GoalCache, archiver DayArchiver, rs *redsync.Redsync) *Worker {
	return &Worker{
		interval:  conf.WorkerInterval,
		timeout:   conf.WorkerTimeout,
		modes:     parseModes(conf.WorkerModes),
		clock:     time.Now,
		refresher: refresher,
		goals:     goals,
		archiver:  archiver,
		rs:        rs,
	}
}

func Start(deps WorkerDeps, lc fx.Lifecycle) {
	if !deps.Config.WorkerEnabled {
		log.Info().Str("evt.name", "worker.disabled").Msg("recompute worker is disabled in this process")
		return
	}

	w := New(deps.Config, deps.Snapshot, deps.Goal, deps.Archiver, deps.RedSync)
	var cancel context.CancelFunc
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			cancel = w.do()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}

func parseModes(raw []string) []board.Mode {
	modes := make([]board.Mode, 0, len(raw))
	for _, s := range raw {
		m, err := board.ParseMode(s)
		if err != nil {
			log.Warn().Err(err).Str("mode", s).Msg("ignoring unknown worker mode")
			continue
		}
		modes = append(modes, m)
	}
	if len(modes) == 0 {
		modes = append(modes, board.ModeMachine)
	}
	return modes
}

func (w *Worker) do() context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for {
			now := w.clock()
			w.Cycle(ctx, now)

			timer := time.NewTimer(w.wait(now))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()

	return cancel
}

// wait returns how long to sleep after a cycle started at now: the interval,
// or less when the production day ends earlier.
func (w *Worker) wait(now time.Time) time.Duration {
	s := w.refresher.Schedule()
	if now.IsZero() || s == nil || s.Location == nil {
		return w.interval
	}
	untilAnchor := s.Resolve(now).End().Sub(now) + wakeMargin
	if untilAnchor < w.interval {
		return untilAnchor
	}
	return w.interval
}

// Cycle refreshes every mode at now, then archives the previous production
// day where it is still pending. The first cycle of a new production day
// drops the cached goal table before refreshing.
func (w *Worker) Cycle(ctx context.Context, now time.Time) {
	log.Info().
		Int("count", w.count).
		Time("now", now).
		Msg("worker cycle started")

	s := w.refresher.Schedule()
	resolvable := !now.IsZero() && s != nil && s.Location != nil

	var day shiftday.ProductionDay
	if resolvable {
		day = s.Resolve(now)
		w.rollover(day)
	}

	for _, mode := range w.modes {
		w.refresh(ctx, now, mode)
	}

	if resolvable {
		previous := day.Previous()
		for _, mode := range w.modes {
			w.archive(ctx, previous, mode, now)
		}
	}

	log.Info().Int("count", w.count).Msg("worker cycle finished")
	w.count++
}

func (w *Worker) rollover(day shiftday.ProductionDay) {
	if day.Anchor.Equal(w.anchor) {
		return
	}
	if !w.anchor.IsZero() && w.goals != nil {
		w.goals.Invalidate()
		log.Info().
			Str("evt.name", "worker.rollover").
			Str("date", day.Date()).
			Msg("production day rolled over, goal table invalidated")
	}
	w.anchor = day.Anchor
}

func (w *Worker) refresh(ctx context.Context, now time.Time, mode board.Mode) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	snap, err := w.refresher.Refresh(ctx, now, mode)
	if err != nil {
		log.Error().
			Str("evt.name", "worker.refresh").
			Err(err).
			Str("mode", string(mode)).
			Bool("servingStale", snap != nil).
			Msg("worker failed to refresh snapshot")
		return
	}
	log.Debug().
		Str("mode", string(mode)).
		Str("fingerprint", snap.Fingerprint).
		Int("grandTotal", snap.GrandTotal).
		Msg("worker refreshed snapshot")
}

func (w *Worker) archive(ctx context.Context, day shiftday.ProductionDay, mode board.Mode, now time.Time) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	pending, err := w.archiver.Pending(ctx, day, mode, now)
	if err != nil {
		log.Error().Err(err).Str("date", day.Date()).Msg("worker failed to check archive")
		return
	}
	if !pending {
		return
	}

	if w.rs != nil {
		mutex := w.rs.NewMutex("shiftboard:archive:"+day.Date()+":"+string(mode), redsync.WithExpiry(w.timeout))
		if err := mutex.LockContext(ctx); err != nil {
			log.Debug().Err(err).Str("date", day.Date()).Msg("archive lock is held elsewhere, skipping")
			return
		}
		defer func() {
			if _, err := mutex.UnlockContext(context.Background()); err != nil {
				log.Warn().Err(err).Msg("failed to release archive lock")
			}
		}()
	}

	if _, err := w.archiver.ArchiveDay(ctx, day, mode, now); err != nil {
		log.Error().
			Str("evt.name", "worker.archive").
			Err(err).
			Str("date", day.Date()).
			Str("mode", string(mode)).
			Msg("worker failed to archive production day")
	}
}

func (w *Worker) Count() int {
	return w.count
}

func (w *Worker) Modes() []board.Mode {
	return w.modes
}
