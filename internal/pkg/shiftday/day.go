package shiftday

import (
	"time"

	"exusiai.dev/shiftboard/internal/model"
)

type ShiftInstance struct {
	ShiftDefinition
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls in [Start, End).
func (s ShiftInstance) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

func (s ShiftInstance) State(now time.Time) model.ShiftState {
	switch {
	case now.Before(s.Start):
		return model.ShiftPending
	case now.Before(s.End):
		return model.ShiftInProgress
	default:
		return model.ShiftCompleted
	}
}

// ProductionDay is a concrete production day: an anchor instant and the three
// shift instances that follow it.
type ProductionDay struct {
	Anchor time.Time
	Shifts []ShiftInstance

	schedule *Schedule
}

func (d ProductionDay) Start() time.Time {
	return d.Shifts[0].Start
}

func (d ProductionDay) End() time.Time {
	return d.Shifts[len(d.Shifts)-1].End
}

func (d ProductionDay) Contains(t time.Time) bool {
	return !t.Before(d.Start()) && t.Before(d.End())
}

func (d ProductionDay) Schedule() *Schedule {
	return d.schedule
}

func (d ProductionDay) Shift(name model.ShiftName) (ShiftInstance, bool) {
	for _, s := range d.Shifts {
		if s.Name == name {
			return s, true
		}
	}
	return ShiftInstance{}, false
}

// ShiftAt returns the shift instance whose half-open interval contains t.
func (d ProductionDay) ShiftAt(t time.Time) (ShiftInstance, bool) {
	for _, s := range d.Shifts {
		if s.Contains(t) {
			return s, true
		}
	}
	return ShiftInstance{}, false
}

func (d ProductionDay) Previous() ProductionDay {
	a := d.Anchor
	return d.schedule.dayAt(time.Date(a.Year(), a.Month(), a.Day()-1, a.Hour(), a.Minute(), 0, 0, a.Location()))
}

func (d ProductionDay) Next() ProductionDay {
	a := d.Anchor
	return d.schedule.dayAt(time.Date(a.Year(), a.Month(), a.Day()+1, a.Hour(), a.Minute(), 0, 0, a.Location()))
}

// Date is the calendar date the production day ends on, formatted as YYYY-MM-DD.
func (d ProductionDay) Date() string {
	return d.End().Format(dateLayout)
}

type Slot struct {
	Index int
	Shift model.ShiftName
	Start time.Time
	End   time.Time
}

func (s Slot) Hours() float64 {
	return s.End.Sub(s.Start).Hours()
}

// Slots splits every shift into one hour slots starting at the shift start.
// The last slot of a shift is cut at the shift end.
func (d ProductionDay) Slots() []Slot {
	var slots []Slot
	for _, s := range d.Shifts {
		for start := s.Start; start.Before(s.End); start = start.Add(time.Hour) {
			end := start.Add(time.Hour)
			if end.After(s.End) {
				end = s.End
			}
			slots = append(slots, Slot{Index: len(slots), Shift: s.Name, Start: start, End: end})
		}
	}
	return slots
}

// SlotAt returns the index of the slot containing t, or -1.
func (d ProductionDay) SlotAt(t time.Time) int {
	idx := 0
	for _, s := range d.Shifts {
		n := int(s.End.Sub(s.Start) / time.Hour)
		if s.End.Sub(s.Start)%time.Hour != 0 {
			n++
		}
		if s.Contains(t) {
			return idx + int(t.Sub(s.Start)/time.Hour)
		}
		idx += n
	}
	return -1
}

// View renders the day for the presentation layer, with shift states as of now.
func (d ProductionDay) View(now time.Time) model.DayView {
	v := model.DayView{
		Anchor: d.Anchor,
		Start:  d.Start(),
		End:    d.End(),
		Shifts: make([]model.ShiftView, 0, len(d.Shifts)),
	}
	for _, s := range d.Shifts {
		v.Shifts = append(v.Shifts, model.ShiftView{
			Name:         s.Name,
			Start:        s.Start,
			End:          s.End,
			NominalHours: s.NominalHours,
			State:        s.State(now),
		})
	}
	return v
}
