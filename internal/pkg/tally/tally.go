// Package tally folds classified production events into per (scope, shift)
// totals. Per-scope, per-shift and grand totals are always derived from the
// buckets on read.
package tally

import (
	"sort"

	"github.com/samber/lo"

	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/shiftday"
	"exusiai.dev/shiftboard/internal/pkg/stations"
)

type bucketKey struct {
	scope string
	shift model.ShiftName
}

type Result struct {
	Diagnostics model.Diagnostics

	day    shiftday.ProductionDay
	totals map[bucketKey]int
	slots  map[string][]int
	scopes map[string]struct{}
}

type Option func(r *Result)

// Seed makes scopes show up in the result even when they saw no events.
func Seed(scopes ...string) Option {
	return func(r *Result) {
		for _, s := range scopes {
			r.touch(s)
		}
	}
}

// Aggregate classifies every event against day and sums counts per bucket.
// Events whose machine has no scope under group are counted as ungrouped and
// skipped.
func Aggregate(events []model.ProductionEvent, day shiftday.ProductionDay, group stations.GroupFunc, opts ...Option) *Result {
	r := &Result{
		day:    day,
		totals: make(map[bucketKey]int),
		slots:  make(map[string][]int),
		scopes: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.Diagnostics.Events = len(events)
	for _, e := range events {
		p, outcome := day.Locate(e)
		switch outcome {
		case shiftday.Malformed:
			r.Diagnostics.Malformed++
			continue
		case shiftday.Excluded:
			r.Diagnostics.Excluded++
			continue
		case shiftday.OutOfDay:
			r.Diagnostics.OutOfDay++
			continue
		}

		scope, ok := group(e.MachineName)
		if !ok {
			r.Diagnostics.Ungrouped++
			continue
		}
		r.Diagnostics.Classified++

		slots := r.touch(scope)
		r.totals[bucketKey{scope, p.Shift}] += e.Count
		if p.Slot >= 0 && p.Slot < len(slots) {
			slots[p.Slot] += e.Count
		}
	}
	return r
}

func (r *Result) touch(scope string) []int {
	if s, ok := r.slots[scope]; ok {
		return s
	}
	r.scopes[scope] = struct{}{}
	s := make([]int, len(r.day.Slots()))
	r.slots[scope] = s
	return s
}

func (r *Result) Day() shiftday.ProductionDay {
	return r.day
}

func (r *Result) Total(scope string, shift model.ShiftName) int {
	return r.totals[bucketKey{scope, shift}]
}

func (r *Result) ScopeTotal(scope string) int {
	sum := 0
	for _, shift := range model.ShiftNames {
		sum += r.totals[bucketKey{scope, shift}]
	}
	return sum
}

func (r *Result) ShiftTotal(shift model.ShiftName) int {
	sum := 0
	for k, v := range r.totals {
		if k.shift == shift {
			sum += v
		}
	}
	return sum
}

func (r *Result) GrandTotal() int {
	return lo.Sum(lo.Values(r.totals))
}

// Scopes returns every scope seen or seeded, sorted.
func (r *Result) Scopes() []string {
	keys := lo.Keys(r.scopes)
	sort.Strings(keys)
	return keys
}

func (r *Result) Has(scope string) bool {
	_, ok := r.scopes[scope]
	return ok
}

// Buckets lists every (scope, shift) total, scopes sorted and shifts in day order.
func (r *Result) Buckets() []model.AggregatedTotal {
	scopes := r.Scopes()
	out := make([]model.AggregatedTotal, 0, len(scopes)*len(model.ShiftNames))
	for _, scope := range scopes {
		for _, shift := range model.ShiftNames {
			out = append(out, model.AggregatedTotal{ScopeKey: scope, Shift: shift, Total: r.Total(scope, shift)})
		}
	}
	return out
}

// Slots returns the per hour slot totals of a scope, aligned with
// ProductionDay.Slots.
func (r *Result) Slots(scope string) []int {
	out := make([]int, len(r.day.Slots()))
	copy(out, r.slots[scope])
	return out
}
