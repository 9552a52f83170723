// Package selector wraps the bun select queries the repositories share, so
// that a missing row always surfaces as sberr.ErrNotFound.
package selector

import (
	"context"
	"database/sql"
	"reflect"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"exusiai.dev/shiftboard/internal/pkg/sberr"
)

type Query func(q *bun.SelectQuery) *bun.SelectQuery

type S[T any] struct {
	db *bun.DB
}

func New[T any](db *bun.DB) S[T] {
	return S[T]{db: db}
}

func (s S[T]) SelectOne(ctx context.Context, fn Query) (*T, error) {
	row := new(T)
	if err := fn(s.db.NewSelect().Model(row)).Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sberr.ErrNotFound
		}
		return nil, errors.Wrapf(err, "select one %s", s.table())
	}
	return row, nil
}

// SelectMany returns an empty slice, not ErrNotFound, when nothing matches.
func (s S[T]) SelectMany(ctx context.Context, fn Query) ([]*T, error) {
	rows := make([]*T, 0)
	if err := fn(s.db.NewSelect().Model(&rows)).Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(err, "select %s", s.table())
	}
	return rows, nil
}

func (s S[T]) Exists(ctx context.Context, fn Query) (bool, error) {
	ok, err := fn(s.db.NewSelect().Model((*T)(nil))).Exists(ctx)
	return ok, errors.Wrapf(err, "exists %s", s.table())
}

func (s S[T]) table() string {
	return s.db.Table(reflect.TypeOf((*T)(nil)).Elem()).Name
}
