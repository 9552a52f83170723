// Package board runs one recompute cycle: classify, aggregate, resolve goals
// and evaluate attainment, in a single synchronous pass over frozen inputs.
package board

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/zeebo/xxh3"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/attain"
	"exusiai.dev/shiftboard/internal/pkg/goals"
	"exusiai.dev/shiftboard/internal/pkg/shiftday"
	"exusiai.dev/shiftboard/internal/pkg/stations"
	"exusiai.dev/shiftboard/internal/pkg/tally"
)

var (
	ErrClockUnavailable = errors.New("clock unavailable")
	ErrInvalidMode      = errors.New("invalid grouping mode")
)

type Mode string

const (
	ModeMachine Mode = "machine"
	ModeStation Mode = "station"
	ModePrefix  Mode = "prefix"

	DefaultPrefixSeparator = "-"
)

var Modes = []Mode{ModeMachine, ModeStation, ModePrefix}

func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeMachine, nil
	}
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidMode, "%q", s)
}

type Input struct {
	// Now is captured once by the caller. A zero Now means the clock could
	// not be read.
	Now      time.Time
	Schedule *shiftday.Schedule
	// Day overrides the production day resolved from Now, for history views.
	Day      *shiftday.ProductionDay
	Grouping *stations.Grouping
	Mode     Mode
	// PrefixSeparator is used in ModePrefix, DefaultPrefixSeparator if empty.
	PrefixSeparator string
	Events          []model.ProductionEvent
	Goals           *goals.Table
	Slots           bool
}

// Compute builds the snapshot for in. It never reads the wall clock; running
// it twice with the same input yields the same snapshot and fingerprint.
func Compute(in Input) (*model.Snapshot, error) {
	if in.Now.IsZero() {
		return nil, ErrClockUnavailable
	}
	if in.Schedule == nil || in.Schedule.Location == nil {
		return nil, errors.Wrap(ErrClockUnavailable, "no schedule location")
	}
	if in.Goals == nil {
		in.Goals = goals.NewTable(in.Grouping)
	}
	if in.Mode == "" {
		in.Mode = ModeMachine
	}

	var day shiftday.ProductionDay
	if in.Day != nil {
		day = *in.Day
	} else {
		day = in.Schedule.Resolve(in.Now)
	}

	group, seeds, err := grouping(in)
	if err != nil {
		return nil, err
	}
	res := tally.Aggregate(in.Events, day, group, tally.Seed(seeds...))

	kind := model.ScopeMachine
	scopes := res.Scopes()
	if in.Mode == ModeStation {
		kind = model.ScopeStation
		scopes = orderStations(scopes, in.Grouping)
	}

	now := in.Now.In(in.Schedule.Location)
	snap := &model.Snapshot{
		Mode:            string(in.Mode),
		ComputedAt:      now,
		ScheduleVersion: in.Schedule.Version,
		Day:             day.View(now),
		Scopes:          make([]*model.ScopeReport, 0, len(scopes)),
		GrandTotal:      res.GrandTotal(),
		Diagnostics:     res.Diagnostics,
	}
	if in.Grouping != nil {
		snap.GroupingVersion = in.Grouping.Version
	}

	for _, scope := range scopes {
		snap.Scopes = append(snap.Scopes, report(scope, kind, res, in.Goals.HourlyTarget(scope), day, now, in.Slots))
	}
	for _, shift := range model.ShiftNames {
		snap.ShiftTotals = append(snap.ShiftTotals, model.ShiftTotal{Shift: shift, Total: res.ShiftTotal(shift)})
	}

	snap.Fingerprint, err = Fingerprint(snap)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func grouping(in Input) (stations.GroupFunc, []string, error) {
	switch in.Mode {
	case ModeMachine:
		return stations.Identity, in.Goals.Keys(), nil
	case ModeStation:
		if in.Grouping == nil {
			return nil, nil, errors.Wrap(ErrInvalidMode, "station mode without a station grouping")
		}
		return in.Grouping.Station(), in.Grouping.Names(), nil
	case ModePrefix:
		sep := in.PrefixSeparator
		if sep == "" {
			sep = DefaultPrefixSeparator
		}
		group := stations.Prefix(sep)
		seeds := lo.Uniq(lo.FilterMap(in.Goals.Keys(), func(k string, _ int) (string, bool) {
			return group(k)
		}))
		return group, seeds, nil
	}
	return nil, nil, errors.Wrapf(ErrInvalidMode, "%q", in.Mode)
}

// orderStations puts stations in floor order, as configured.
func orderStations(scopes []string, g *stations.Grouping) []string {
	rank := make(map[string]int, len(g.Stations))
	for i, name := range g.Names() {
		rank[name] = i
	}
	out := append([]string(nil), scopes...)
	sort.SliceStable(out, func(i, j int) bool {
		return rank[out[i]] < rank[out[j]]
	})
	return out
}

func report(scope string, kind model.ScopeKind, res *tally.Result, target goals.Target, day shiftday.ProductionDay, now time.Time, withSlots bool) *model.ScopeReport {
	r := &model.ScopeReport{
		Key:    scope,
		Kind:   kind,
		Shifts: make([]model.ShiftCell, 0, len(day.Shifts)),
	}
	if target.Defined {
		r.HourlyTarget = null.FloatFrom(target.Value)
	}

	for _, shift := range day.Shifts {
		fig := goals.Prorate(target, shift, now)
		total := res.Total(scope, shift.Name)
		r.Shifts = append(r.Shifts, model.ShiftCell{
			Shift:    shift.Name,
			Total:    total,
			Goal:     fig.Full,
			LiveGoal: fig.Live,
			Verdict:  attain.Evaluate(total, fig.Live),
		})
		r.DayTotal += total
		r.DayGoal += fig.Full
		r.DayLiveGoal += fig.Live
	}
	r.DayVerdict = attain.Evaluate(r.DayTotal, r.DayLiveGoal)

	if withSlots {
		totals := res.Slots(scope)
		for i, slot := range day.Slots() {
			goal := target.Value * slot.Hours()
			r.Slots = append(r.Slots, model.SlotCell{
				Shift:   slot.Shift,
				Start:   slot.Start,
				End:     slot.End,
				Total:   totals[i],
				Goal:    goal,
				Verdict: attain.Evaluate(totals[i], goal),
			})
		}
	}
	return r
}

// Fingerprint hashes the content of a snapshot. Fields that change on every
// cycle without the content changing (id, computedAt, stale) are left out.
func Fingerprint(s *model.Snapshot) (string, error) {
	c := *s
	c.ID = ""
	c.Fingerprint = ""
	c.Stale = false
	c.ComputedAt = time.Time{}

	b, err := json.Marshal(&c)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode snapshot for fingerprint")
	}
	return fmt.Sprintf("%016x", xxh3.Hash(b)), nil
}
