package service

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/board"
	"exusiai.dev/shiftboard/internal/pkg/observability"
	"exusiai.dev/shiftboard/internal/pkg/sberr"
	"exusiai.dev/shiftboard/internal/pkg/shiftday"
)

// Archiver keeps the final snapshot of closed production days.
type Archiver struct {
	conf     *appconfig.Config
	store    ArchiveStore
	snapshot *Snapshot
}

func NewArchiver(conf *appconfig.Config, store ArchiveStore, snapshot *Snapshot) *Archiver {
	return &Archiver{
		conf:     conf,
		store:    store,
		snapshot: snapshot,
	}
}

func (s *Archiver) Enabled() bool {
	return s.conf.ArchiveEnabled && s.store.Enabled()
}

// Pending reports whether day is closed at now and not archived for mode yet.
func (s *Archiver) Pending(ctx context.Context, day shiftday.ProductionDay, mode board.Mode, now time.Time) (bool, error) {
	if !s.Enabled() || now.Before(day.End()) {
		return false, nil
	}
	exists, err := s.store.Exists(ctx, day.Anchor, string(mode))
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// ArchiveDay recomputes the closed day from history and stores it. It reports
// whether a new row was written.
func (s *Archiver) ArchiveDay(ctx context.Context, day shiftday.ProductionDay, mode board.Mode, now time.Time) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	if now.Before(day.End()) {
		return false, errors.Errorf("production day %s is not closed yet", day.Date())
	}

	snap, err := s.snapshot.History(ctx, day, mode, now)
	if err != nil {
		return false, err
	}
	content, err := json.Marshal(snap)
	if err != nil {
		return false, errors.Wrap(err, "failed to encode archived snapshot")
	}

	saved, err := s.store.SaveDay(ctx, &model.ArchivedDay{
		Anchor:      day.Anchor,
		Mode:        string(mode),
		Fingerprint: snap.Fingerprint,
		Content:     content,
	}, SummaryRows(snap))
	if err != nil {
		return false, errors.Wrap(err, "failed to save archived day")
	}

	if saved {
		observability.ArchivedDays.Inc()
		log.Info().
			Str("evt.name", "archive.saved").
			Str("date", day.Date()).
			Str("mode", string(mode)).
			Int("grandTotal", snap.GrandTotal).
			Msg("archived closed production day")
	}
	return saved, nil
}

// Summaries lists the archived summary rows of the production days ending on
// from through to, both inclusive.
func (s *Archiver) Summaries(ctx context.Context, from, to string, mode board.Mode) ([]*model.ShiftSummary, error) {
	if !s.Enabled() {
		return nil, sberr.ErrNotFound.Msg("the archive is disabled")
	}
	first, err := s.snapshot.schedule.ParseDate(from)
	if err != nil {
		return nil, sberr.ErrInvalidReq.Msg("invalid date %q: expected YYYY-MM-DD", from)
	}
	last, err := s.snapshot.schedule.ParseDate(to)
	if err != nil {
		return nil, sberr.ErrInvalidReq.Msg("invalid date %q: expected YYYY-MM-DD", to)
	}
	if last.Anchor.Before(first.Anchor) {
		return nil, sberr.ErrInvalidReq.Msg("from %s is after to %s", from, to)
	}
	return s.store.ListSummaries(ctx, first.Anchor, last.Next().Anchor, string(mode))
}

// SummaryRows flattens a snapshot into one row per (scope, shift).
func SummaryRows(snap *model.Snapshot) []*model.ShiftSummary {
	rows := make([]*model.ShiftSummary, 0, len(snap.Scopes)*len(snap.Day.Shifts))
	for _, sc := range snap.Scopes {
		for _, cell := range sc.Shifts {
			rows = append(rows, &model.ShiftSummary{
				Anchor:      snap.Day.Anchor,
				Mode:        snap.Mode,
				ScopeKey:    sc.Key,
				ScopeKind:   sc.Kind,
				Shift:       cell.Shift,
				Total:       cell.Total,
				Goal:        cell.Goal,
				GoalDefined: sc.HourlyTarget.Valid,
				Verdict:     cell.Verdict,
			})
		}
	}
	return rows
}

func decodeArchived(row *model.ArchivedDay) (*model.Snapshot, error) {
	var snap model.Snapshot
	if err := json.Unmarshal(row.Content, &snap); err != nil {
		return nil, errors.Wrap(err, "failed to decode archived snapshot")
	}
	return &snap, nil
}
