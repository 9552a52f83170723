package model

import (
	"time"

	"gopkg.in/guregu/null.v3"
)

type ScopeKind string

const (
	ScopeMachine ScopeKind = "machine"
	ScopeStation ScopeKind = "station"
)

// Snapshot is the result of one recompute cycle. Everything in it is derived
// from the cycle's inputs; ID and Stale are assigned by the snapshot service and
// are not part of the fingerprint.
type Snapshot struct {
	ID              string         `json:"id" msgpack:"id"`
	Mode            string         `json:"mode" msgpack:"mode"`
	ComputedAt      time.Time      `json:"computedAt" msgpack:"computedAt"`
	Stale           bool           `json:"stale" msgpack:"stale"`
	Fingerprint     string         `json:"fingerprint" msgpack:"fingerprint"`
	ScheduleVersion string         `json:"scheduleVersion" msgpack:"scheduleVersion"`
	GroupingVersion string         `json:"groupingVersion" msgpack:"groupingVersion"`
	Day             DayView        `json:"day" msgpack:"day"`
	Scopes          []*ScopeReport `json:"scopes" msgpack:"scopes"`
	ShiftTotals     []ShiftTotal   `json:"shiftTotals" msgpack:"shiftTotals"`
	GrandTotal      int            `json:"grandTotal" msgpack:"grandTotal"`
	Diagnostics     Diagnostics    `json:"diagnostics" msgpack:"diagnostics"`
}

type DayView struct {
	Anchor time.Time   `json:"anchor" msgpack:"anchor"`
	Start  time.Time   `json:"start" msgpack:"start"`
	End    time.Time   `json:"end" msgpack:"end"`
	Shifts []ShiftView `json:"shifts" msgpack:"shifts"`
}

type ShiftView struct {
	Name         ShiftName  `json:"name" msgpack:"name"`
	Start        time.Time  `json:"start" msgpack:"start"`
	End          time.Time  `json:"end" msgpack:"end"`
	NominalHours float64    `json:"nominalHours" msgpack:"nominalHours"`
	State        ShiftState `json:"state" msgpack:"state"`
}

type ScopeReport struct {
	Key  string    `json:"key" msgpack:"key"`
	Kind ScopeKind `json:"kind" msgpack:"kind"`
	// HourlyTarget is null when no goal is configured for the scope, which the
	// presentation layer renders as "not defined" rather than as a zero target.
	HourlyTarget null.Float  `json:"hourlyTarget" msgpack:"hourlyTarget"`
	Shifts       []ShiftCell `json:"shifts" msgpack:"shifts"`
	DayTotal     int         `json:"dayTotal" msgpack:"dayTotal"`
	DayGoal      float64     `json:"dayGoal" msgpack:"dayGoal"`
	DayLiveGoal  float64     `json:"dayLiveGoal" msgpack:"dayLiveGoal"`
	DayVerdict   Verdict     `json:"dayVerdict" msgpack:"dayVerdict"`
	Slots        []SlotCell  `json:"slots,omitempty" msgpack:"slots"`
}

type ShiftCell struct {
	Shift    ShiftName `json:"shift" msgpack:"shift"`
	Total    int       `json:"total" msgpack:"total"`
	Goal     float64   `json:"goal" msgpack:"goal"`
	LiveGoal float64   `json:"liveGoal" msgpack:"liveGoal"`
	Verdict  Verdict   `json:"verdict" msgpack:"verdict"`
}

type SlotCell struct {
	Shift   ShiftName `json:"shift" msgpack:"shift"`
	Start   time.Time `json:"start" msgpack:"start"`
	End     time.Time `json:"end" msgpack:"end"`
	Total   int       `json:"total" msgpack:"total"`
	Goal    float64   `json:"goal" msgpack:"goal"`
	Verdict Verdict   `json:"verdict" msgpack:"verdict"`
}

type ShiftTotal struct {
	Shift ShiftName `json:"shift" msgpack:"shift"`
	Total int       `json:"total" msgpack:"total"`
}

// Diagnostics counts what happened to the events fed into a cycle.
type Diagnostics struct {
	Events     int `json:"events" msgpack:"events"`
	Classified int `json:"classified" msgpack:"classified"`
	Malformed  int `json:"malformed" msgpack:"malformed"`
	Excluded   int `json:"excluded" msgpack:"excluded"`
	OutOfDay   int `json:"outOfDay" msgpack:"outOfDay"`
	Ungrouped  int `json:"ungrouped" msgpack:"ungrouped"`
}

func (s *Snapshot) Scope(key string) *ScopeReport {
	for _, sc := range s.Scopes {
		if sc.Key == key {
			return sc
		}
	}
	return nil
}

func (r *ScopeReport) Shift(name ShiftName) (ShiftCell, bool) {
	for _, c := range r.Shifts {
		if c.Shift == name {
			return c, true
		}
	}
	return ShiftCell{}, false
}

// WithoutSlots returns a copy of s with the hourly slots left out. s itself is
// not modified.
func (s *Snapshot) WithoutSlots() *Snapshot {
	c := *s
	c.Scopes = make([]*ScopeReport, len(s.Scopes))
	for i, sc := range s.Scopes {
		r := *sc
		r.Slots = nil
		c.Scopes[i] = &r
	}
	return &c
}
