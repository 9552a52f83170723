package async

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"
)

type Errors struct {
	E []error
}

var _ error = (*Errors)(nil)

func (e Errors) Wrapped() error {
	if len(e.E) == 0 {
		return nil
	}
	return e
}

// Is reports whether any of the collected errors matches target.
func (e Errors) Is(target error) bool {
	for _, err := range e.E {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (e Errors) Error() string {
	var sb strings.Builder
	l := len(e.E)
	for i, err := range e.E {
		sb.WriteString(err.Error())
		if i < l-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}

// Map applies f to every element of src with at most concurrencyLimit calls in
// flight. Results keep the order of src. All elements are processed even when
// some fail; failures are collected, in src order, into an Errors.
func Map[T any, D any](ctx context.Context, src []T, concurrencyLimit int, f func(context.Context, T) (D, error)) ([]D, error) {
	if len(src) == 0 {
		return []D{}, nil
	}
	if concurrencyLimit <= 0 {
		concurrencyLimit = len(src)
	}

	results := make([]D, len(src))
	errs := make([]error, len(src))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(concurrencyLimit, len(src)))
	for i := range src {
		i := i
		g.Go(func() error {
			// per element errors are collected, not returned, so siblings keep running
			results[i], errs[i] = f(gctx, src[i])
			return nil
		})
	}
	_ = g.Wait()

	all := Errors{}
	for _, err := range errs {
		if err != nil {
			all.E = append(all.E, err)
		}
	}
	return results, all.Wrapped()
}

func FlatMap[T any, D any](ctx context.Context, src []T, concurrencyLimit int, f func(context.Context, T) ([]D, error)) ([]D, error) {
	r, err := Map(ctx, src, concurrencyLimit, f)
	if err != nil {
		return nil, err
	}

	flattened := make([]D, 0, len(r))
	for _, v := range r {
		flattened = append(flattened, v...)
	}

	return flattened, nil
}

func min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}
