package shiftday

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"exusiai.dev/shiftboard/internal/model"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var ErrMalformedEvent = errors.New("malformed production event")

type Outcome int

const (
	Classified Outcome = iota
	Malformed
	Excluded
	OutOfDay
)

func (o Outcome) String() string {
	switch o {
	case Classified:
		return "classified"
	case Malformed:
		return "malformed"
	case Excluded:
		return "excluded"
	case OutOfDay:
		return "out_of_day"
	}
	return "unknown"
}

// Placement is where a classified event landed within a production day.
type Placement struct {
	At    time.Time
	Shift model.ShiftName
	Slot  int
}

// EventInstant combines the event date and time of day into one instant in the
// schedule location. Both HH:MM and HH:MM:SS are accepted; dates may carry an
// ISO time suffix, which is ignored.
func (s *Schedule) EventInstant(e model.ProductionEvent) (time.Time, error) {
	date := strings.TrimSpace(e.Date)
	if i := strings.IndexByte(date, 'T'); i == len(dateLayout) {
		date = date[:i]
	}
	tod := strings.TrimSpace(e.TimeOfDay)
	switch strings.Count(tod, ":") {
	case 1:
		tod += ":00"
	case 2:
		if i := strings.IndexByte(tod, '.'); i >= 0 {
			tod = tod[:i]
		}
	default:
		return time.Time{}, errors.Wrapf(ErrMalformedEvent, "time of day %q", e.TimeOfDay)
	}
	if date == "" {
		return time.Time{}, errors.Wrap(ErrMalformedEvent, "missing date")
	}
	t, err := time.ParseInLocation(dateTimeLayout, date+" "+tod, s.Location)
	if err != nil {
		return time.Time{}, errors.Wrap(ErrMalformedEvent, err.Error())
	}
	return t, nil
}

func (s *Schedule) excluded(e model.ProductionEvent, at time.Time) bool {
	minutes := at.Hour()*60 + at.Minute()
	for _, w := range s.Exclusions {
		if w.Contains(minutes) {
			return true
		}
	}
	if s.Rule != nil {
		matched, err := s.Rule.Match(at.Hour(), at.Minute(), e.MachineName, e.Count)
		// a rule that cannot be evaluated never drops events
		return err == nil && matched
	}
	return false
}

// Locate classifies an event against the day and, if it is classified, tells
// which shift and hour slot it falls into.
func (d ProductionDay) Locate(e model.ProductionEvent) (Placement, Outcome) {
	at, err := d.schedule.EventInstant(e)
	if err != nil || e.Count < 0 {
		return Placement{}, Malformed
	}
	if d.schedule.excluded(e, at) {
		return Placement{At: at}, Excluded
	}
	shift, ok := d.ShiftAt(at)
	if !ok {
		return Placement{At: at}, OutOfDay
	}
	return Placement{At: at, Shift: shift.Name, Slot: d.SlotAt(at)}, Classified
}

// Classify returns the shift the event belongs to. The shift name is empty
// unless the outcome is Classified.
func Classify(e model.ProductionEvent, day ProductionDay) (model.ShiftName, Outcome) {
	p, outcome := day.Locate(e)
	return p.Shift, outcome
}
