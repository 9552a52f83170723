// Package shiftday resolves production days and the shifts inside them.
//
// A production day starts at a fixed anchor (22:00 by default) and is split
// into three contiguous shifts: night, morning and afternoon. Because the night
// shift starts at the anchor it always crosses midnight, so the calendar date of
// an event alone never tells which production day it belongs to.
package shiftday

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"exusiai.dev/shiftboard/internal/model"
)

const (
	DefaultAnchorHour   = 22
	DefaultAnchorMinute = 0
	DefaultBuffer       = 30 * time.Minute

	dayLength = 24 * time.Hour
)

var ErrInvalidSchedule = errors.New("invalid shift schedule")

type ShiftDefinition struct {
	Name model.ShiftName
	// StartOffset and EndOffset are measured from the production day anchor.
	StartOffset time.Duration
	EndOffset   time.Duration
	// NominalHours is the duration goals are prorated against. It does not have
	// to match EndOffset-StartOffset.
	NominalHours float64
}

func (d ShiftDefinition) Duration() time.Duration {
	return d.EndOffset - d.StartOffset
}

// Nominal carries the per-shift nominal hours used for goal proration.
type Nominal struct {
	Night     float64
	Morning   float64
	Afternoon float64
}

var DefaultNominal = Nominal{Night: 8, Morning: 8, Afternoon: 7}

type Schedule struct {
	Version      string
	AnchorHour   int
	AnchorMinute int
	Shifts       []ShiftDefinition
	Exclusions   []ClockWindow
	Rule         *ExclusionRule
	Location     *time.Location
}

// DefaultSchedule builds the 22:00 anchored schedule where the night shift
// lasts eight hours plus buffer and the morning shift lasts eight hours:
//
//	night     [22:00, 06:00+buffer)
//	morning   [06:00+buffer, 14:00+buffer)
//	afternoon [14:00+buffer, 22:00)
func DefaultSchedule(loc *time.Location, buffer time.Duration, nominal Nominal) *Schedule {
	nightEnd := 8*time.Hour + buffer
	morningEnd := nightEnd + 8*time.Hour
	return &Schedule{
		Version:      fmt.Sprintf("default/buffer=%s", buffer),
		AnchorHour:   DefaultAnchorHour,
		AnchorMinute: DefaultAnchorMinute,
		Location:     loc,
		Shifts: []ShiftDefinition{
			{Name: model.ShiftNight, StartOffset: 0, EndOffset: nightEnd, NominalHours: nominal.Night},
			{Name: model.ShiftMorning, StartOffset: nightEnd, EndOffset: morningEnd, NominalHours: nominal.Morning},
			{Name: model.ShiftAfternoon, StartOffset: morningEnd, EndOffset: dayLength, NominalHours: nominal.Afternoon},
		},
	}
}

// Validate checks that the shifts tile a full production day, in order, without gaps.
func (s *Schedule) Validate() error {
	if s.Location == nil {
		return errors.Wrap(ErrInvalidSchedule, "no location configured")
	}
	if s.AnchorHour < 0 || s.AnchorHour > 23 || s.AnchorMinute < 0 || s.AnchorMinute > 59 {
		return errors.Wrapf(ErrInvalidSchedule, "anchor %02d:%02d out of range", s.AnchorHour, s.AnchorMinute)
	}
	if len(s.Shifts) != len(model.ShiftNames) {
		return errors.Wrapf(ErrInvalidSchedule, "expected %d shifts, got %d", len(model.ShiftNames), len(s.Shifts))
	}

	var cursor time.Duration
	for i, def := range s.Shifts {
		if def.Name != model.ShiftNames[i] {
			return errors.Wrapf(ErrInvalidSchedule, "shift #%d must be %q, got %q", i, model.ShiftNames[i], def.Name)
		}
		if def.StartOffset != cursor {
			return errors.Wrapf(ErrInvalidSchedule, "shift %q starts at %s, expected %s", def.Name, def.StartOffset, cursor)
		}
		if def.EndOffset <= def.StartOffset {
			return errors.Wrapf(ErrInvalidSchedule, "shift %q is empty", def.Name)
		}
		if def.NominalHours <= 0 || def.NominalHours > 24 {
			return errors.Wrapf(ErrInvalidSchedule, "shift %q has nominal hours %v", def.Name, def.NominalHours)
		}
		cursor = def.EndOffset
	}
	if cursor != dayLength {
		return errors.Wrapf(ErrInvalidSchedule, "shifts cover %s instead of %s", cursor, dayLength)
	}
	return nil
}

func (s *Schedule) Definition(name model.ShiftName) (ShiftDefinition, bool) {
	for _, def := range s.Shifts {
		if def.Name == name {
			return def, true
		}
	}
	return ShiftDefinition{}, false
}

// Resolve returns the production day that contains now.
func (s *Schedule) Resolve(now time.Time) ProductionDay {
	local := now.In(s.Location)
	anchor := time.Date(local.Year(), local.Month(), local.Day(), s.AnchorHour, s.AnchorMinute, 0, 0, s.Location)
	if local.Before(anchor) {
		anchor = time.Date(local.Year(), local.Month(), local.Day()-1, s.AnchorHour, s.AnchorMinute, 0, 0, s.Location)
	}
	return s.dayAt(anchor)
}

// ResolveDate returns the production day that ends on the given calendar date,
// i.e. the one anchored on the previous evening.
func (s *Schedule) ResolveDate(year int, month time.Month, day int) ProductionDay {
	anchor := time.Date(year, month, day-1, s.AnchorHour, s.AnchorMinute, 0, 0, s.Location)
	return s.dayAt(anchor)
}

// ParseDate resolves a YYYY-MM-DD date with ResolveDate.
func (s *Schedule) ParseDate(date string) (ProductionDay, error) {
	t, err := time.ParseInLocation(dateLayout, date, s.Location)
	if err != nil {
		return ProductionDay{}, errors.Wrapf(err, "invalid date %q", date)
	}
	return s.ResolveDate(t.Year(), t.Month(), t.Day()), nil
}

func (s *Schedule) dayAt(anchor time.Time) ProductionDay {
	day := ProductionDay{
		Anchor:   anchor,
		Shifts:   make([]ShiftInstance, 0, len(s.Shifts)),
		schedule: s,
	}
	for _, def := range s.Shifts {
		day.Shifts = append(day.Shifts, ShiftInstance{
			ShiftDefinition: def,
			Start:           wallOffset(anchor, def.StartOffset),
			End:             wallOffset(anchor, def.EndOffset),
		})
	}
	return day
}

// wallOffset adds d to t on the wall clock, so that 06:30 stays 06:30 on days
// where the zone changes its UTC offset.
func wallOffset(t time.Time, d time.Duration) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second()+int(d/time.Second), 0, t.Location())
}
