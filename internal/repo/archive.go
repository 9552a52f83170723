package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"

	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/sberr"
	"exusiai.dev/shiftboard/internal/repo/selector"
)

// Archive stores closed production days. Every method is a no-op returning
// zero values when no database is configured; callers check Enabled first
// where the difference matters.
type Archive struct {
	db      *bun.DB
	days    selector.S[model.ArchivedDay]
	summary selector.S[model.ShiftSummary]
}

func NewArchive(db *bun.DB) *Archive {
	return &Archive{
		db:      db,
		days:    selector.New[model.ArchivedDay](db),
		summary: selector.New[model.ShiftSummary](db),
	}
}

func (r *Archive) Enabled() bool {
	return r != nil && r.db != nil
}

func (r *Archive) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return nil
	}
	return r.db.PingContext(ctx)
}

func (r *Archive) GetDay(ctx context.Context, anchor time.Time, mode string) (*model.ArchivedDay, error) {
	if !r.Enabled() {
		return nil, sberr.ErrNotFound
	}
	return r.days.SelectOne(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("anchor = ?", anchor.UTC()).Where("mode = ?", mode)
	})
}

func (r *Archive) Exists(ctx context.Context, anchor time.Time, mode string) (bool, error) {
	if !r.Enabled() {
		return false, nil
	}
	return r.days.Exists(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("anchor = ?", anchor.UTC()).Where("mode = ?", mode)
	})
}

// SaveDay writes the day and its summary rows in one transaction. A day that
// is already archived is left untouched; saved reports whether a row was
// written.
func (r *Archive) SaveDay(ctx context.Context, day *model.ArchivedDay, summaries []*model.ShiftSummary) (saved bool, err error) {
	if !r.Enabled() {
		return false, nil
	}
	day.Anchor = day.Anchor.UTC()

	err = r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().
			Model(day).
			On("CONFLICT (anchor, mode) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		saved = true

		if len(summaries) == 0 {
			return nil
		}
		for _, s := range summaries {
			s.Anchor = day.Anchor
		}
		_, err = tx.NewInsert().Model(&summaries).Exec(ctx)
		return err
	})
	return saved, err
}

// ListSummaries returns the summary rows of days anchored in [from, to).
func (r *Archive) ListSummaries(ctx context.Context, from, to time.Time, mode string) ([]*model.ShiftSummary, error) {
	if !r.Enabled() {
		return nil, nil
	}
	return r.summary.SelectMany(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where("anchor >= ?", from.UTC()).
			Where("anchor < ?", to.UTC()).
			Where("mode = ?", mode).
			Order("anchor ASC", "shift_summary_id ASC")
	})
}
