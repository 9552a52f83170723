// Package goals resolves hourly production targets and prorates them over shifts.
package goals

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/shiftday"
	"exusiai.dev/shiftboard/internal/pkg/stations"
)

// Target is an hourly target. Defined is false when no goal is configured,
// in which case Value is 0.
type Target struct {
	Value   float64
	Defined bool
}

type Table struct {
	entries  map[string]model.GoalEntry
	grouping *stations.Grouping
}

// NewTable indexes entries by normalized machine key. When a key appears more
// than once the later entry wins.
func NewTable(grouping *stations.Grouping, entries ...model.GoalEntry) *Table {
	t := &Table{
		entries:  make(map[string]model.GoalEntry, len(entries)),
		grouping: grouping,
	}
	for _, e := range entries {
		key := stations.Normalize(e.MachineKey)
		if key == "" {
			continue
		}
		if prev, ok := t.entries[key]; ok && prev.Family != e.Family {
			log.Warn().
				Str("evt.name", "goals.conflict").
				Str("machine", key).
				Str("family", prev.Family).
				Str("overriddenBy", e.Family).
				Msg("goal defined in several families; keeping the later one")
		}
		e.MachineKey = key
		t.entries[key] = e
	}
	return t
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Keys returns the normalized machine keys with a goal.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	return keys
}

func (t *Table) Entries() []model.GoalEntry {
	out := make([]model.GoalEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	return out
}

// HourlyTarget resolves a scope key. Station keys resolve to the sum of their
// member machines' targets and are defined when any member is.
func (t *Table) HourlyTarget(scope string) Target {
	if t.grouping != nil && t.grouping.IsStation(scope) {
		var target Target
		for _, m := range t.grouping.Members(scope) {
			if e, ok := t.entries[m]; ok {
				target.Value += e.HourlyTarget
				target.Defined = true
			}
		}
		return target
	}
	e, ok := t.entries[stations.Normalize(scope)]
	if !ok {
		return Target{}
	}
	return Target{Value: e.HourlyTarget, Defined: true}
}

// Figure is a target prorated over one shift.
type Figure struct {
	Hourly  float64
	Full    float64
	Live    float64
	Defined bool
}

// Prorate scales an hourly target to a shift. Full covers the nominal hours;
// Live only covers the whole hours elapsed since the shift started, capped at
// the nominal hours.
func Prorate(target Target, shift shiftday.ShiftInstance, now time.Time) Figure {
	return Figure{
		Hourly:  target.Value,
		Full:    target.Value * shift.NominalHours,
		Live:    target.Value * ElapsedHours(shift, now),
		Defined: target.Defined,
	}
}

// ElapsedHours is the number of whole hours between the shift start and now,
// clamped to [0, NominalHours]. Completed shifts always count in full.
func ElapsedHours(shift shiftday.ShiftInstance, now time.Time) float64 {
	switch shift.State(now) {
	case model.ShiftPending:
		return 0
	case model.ShiftCompleted:
		return shift.NominalHours
	}
	elapsed := math.Floor(now.Sub(shift.Start).Hours())
	return math.Max(0, math.Min(elapsed, shift.NominalHours))
}
