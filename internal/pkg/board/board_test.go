package board

import (
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/goals"
	"exusiai.dev/shiftboard/internal/pkg/shiftday"
	"exusiai.dev/shiftboard/internal/pkg/stations"
)

var plant = time.FixedZone("CST", -6*60*60)

func at(d, hh, mm int) time.Time {
	return time.Date(2024, time.March, d, hh, mm, 0, 0, plant)
}

func input(now time.Time, mode Mode, events ...model.ProductionEvent) Input {
	g := stations.Default()
	return Input{
		Now:      now,
		Schedule: shiftday.DefaultSchedule(plant, shiftday.DefaultBuffer, shiftday.DefaultNominal),
		Grouping: g,
		Mode:     mode,
		Events:   events,
		Goals: goals.NewTable(g,
			model.GoalEntry{MachineKey: "320 DEBLOCKING 1", HourlyTarget: 10, Family: "terminados"},
			model.GoalEntry{MachineKey: "241 GENERATOR 1", HourlyTarget: 6, Family: "generadores"},
			model.GoalEntry{MachineKey: "242 GENERATOR 2", HourlyTarget: 4, Family: "generadores"},
		),
	}
}

func ev(machine, date, tod string, count int) model.ProductionEvent {
	return model.ProductionEvent{MachineName: machine, Date: date, TimeOfDay: tod, Count: count}
}

func TestComputeMachineMode(t *testing.T) {
	snap, err := Compute(input(at(10, 15, 0), ModeMachine,
		ev("320 DEBLOCKING 1", "2024-03-10", "07:00", 50),
		ev("320 DEBLOCKING 1", "2024-03-10", "13:10", 35),
	))
	require.NoError(t, err)

	sc := snap.Scope("320 DEBLOCKING 1")
	require.NotNil(t, sc, spew.Sdump(snap.Scopes))
	assert.Equal(t, model.ScopeMachine, sc.Kind)
	assert.Equal(t, 10.0, sc.HourlyTarget.Float64)

	morning, ok := sc.Shift(model.ShiftMorning)
	require.True(t, ok)
	assert.Equal(t, 85, morning.Total)
	assert.Equal(t, 80.0, morning.Goal)
	assert.Equal(t, 80.0, morning.LiveGoal)
	assert.Equal(t, model.VerdictMetOrAbove, morning.Verdict)

	afternoon, _ := sc.Shift(model.ShiftAfternoon)
	assert.Equal(t, 0, afternoon.Total)
	assert.Equal(t, model.VerdictNoActivity, afternoon.Verdict)

	// goal keys without events are still reported
	assert.NotNil(t, snap.Scope("241 GENERATOR 1"))
	assert.Equal(t, 85, snap.GrandTotal)
	assert.Equal(t, at(9, 22, 0), snap.Day.Anchor)
	assert.Equal(t, model.ShiftInProgress, snap.Day.Shifts[2].State)
}

func TestComputeStationMode(t *testing.T) {
	snap, err := Compute(input(at(10, 15, 0), ModeStation,
		ev("241 GENERATOR 1", "2024-03-10", "08:00", 50),
		ev("242 GENERATOR 2", "2024-03-10", "09:00", 30),
	))
	require.NoError(t, err)

	assert.Len(t, snap.Scopes, len(stations.Default().Stations))
	assert.Equal(t, "Surtido", snap.Scopes[0].Key)

	gen := snap.Scope("Generado")
	require.NotNil(t, gen)
	assert.Equal(t, model.ScopeStation, gen.Kind)
	assert.Equal(t, 10.0, gen.HourlyTarget.Float64)

	morning, _ := gen.Shift(model.ShiftMorning)
	assert.Equal(t, 80, morning.Total)
	assert.Equal(t, 80.0, morning.Goal)
	assert.Equal(t, model.VerdictMetOrAbove, morning.Verdict)

	surtido := snap.Scope("Surtido")
	assert.False(t, surtido.HourlyTarget.Valid)
}

func TestComputePrefixMode(t *testing.T) {
	in := input(at(10, 15, 0), ModePrefix,
		ev("254 IFLEX SRVR-A", "2024-03-10", "08:00", 3),
		ev("254 IFLEX SRVR-B", "2024-03-10", "08:30", 4),
	)
	snap, err := Compute(in)
	require.NoError(t, err)

	sc := snap.Scope("254 IFLEX SRVR")
	require.NotNil(t, sc)
	assert.Equal(t, 7, sc.DayTotal)
}

func TestComputeEmptyEvents(t *testing.T) {
	for _, mode := range Modes {
		snap, err := Compute(input(at(10, 23, 0), mode))
		require.NoError(t, err)
		require.NotEmpty(t, snap.Scopes)
		for _, sc := range snap.Scopes {
			assert.Equal(t, 0, sc.DayTotal)
			assert.Equal(t, model.VerdictNoActivity, sc.DayVerdict)
			for _, c := range sc.Shifts {
				assert.Equal(t, 0, c.Total)
				assert.Equal(t, model.VerdictNoActivity, c.Verdict)
			}
		}
		assert.Equal(t, 0, snap.GrandTotal)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	in := input(at(10, 11, 20), ModeStation,
		ev("241 GENERATOR 1", "2024-03-10", "08:00", 50),
		ev("320 DEBLOCKING 1", "2024-03-09", "23:59:59", 1),
		ev("19 LENS LOG", "2024-03-10", "bad", 1),
	)
	in.Slots = true

	first, err := Compute(in)
	require.NoError(t, err)
	second, err := Compute(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, 1, first.Diagnostics.Malformed)

	in.Events = append(in.Events, ev("241 GENERATOR 1", "2024-03-10", "08:00", 1))
	third, err := Compute(in)
	require.NoError(t, err)
	assert.NotEqual(t, first.Fingerprint, third.Fingerprint)
}

func TestComputeLiveGoal(t *testing.T) {
	snap, err := Compute(input(at(10, 9, 45), ModeMachine,
		ev("320 DEBLOCKING 1", "2024-03-10", "07:00", 25),
	))
	require.NoError(t, err)

	morning, _ := snap.Scope("320 DEBLOCKING 1").Shift(model.ShiftMorning)
	// 06:30 -> 09:45 is three whole hours
	assert.Equal(t, 30.0, morning.LiveGoal)
	assert.Equal(t, model.VerdictBelow, morning.Verdict)
}

func TestComputeHistoryDay(t *testing.T) {
	in := input(at(12, 10, 0), ModeMachine, ev("320 DEBLOCKING 1", "2024-03-10", "07:00", 90))
	day := in.Schedule.ResolveDate(2024, time.March, 10)
	in.Day = &day

	snap, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, at(9, 22, 0), snap.Day.Anchor)
	for _, sh := range snap.Day.Shifts {
		assert.Equal(t, model.ShiftCompleted, sh.State)
	}
	sc := snap.Scope("320 DEBLOCKING 1")
	assert.Equal(t, 230.0, sc.DayGoal)
	assert.Equal(t, model.VerdictBelow, sc.DayVerdict)
}

func TestComputeClockUnavailable(t *testing.T) {
	_, err := Compute(input(time.Time{}, ModeMachine))
	assert.ErrorIs(t, err, ErrClockUnavailable)

	in := input(at(10, 9, 0), ModeMachine)
	in.Schedule.Location = nil
	_, err = Compute(in)
	assert.ErrorIs(t, err, ErrClockUnavailable)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeMachine, m)

	m, err = ParseMode(" Station ")
	require.NoError(t, err)
	assert.Equal(t, ModeStation, m)

	_, err = ParseMode("team")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestSlotsIncluded(t *testing.T) {
	in := input(at(10, 15, 0), ModeMachine, ev("320 DEBLOCKING 1", "2024-03-10", "07:10", 12))
	in.Slots = true

	snap, err := Compute(in)
	require.NoError(t, err)
	sc := snap.Scope("320 DEBLOCKING 1")
	require.Len(t, sc.Slots, 25)
	assert.Equal(t, 12, sc.Slots[9].Total)
	assert.Equal(t, 10.0, sc.Slots[9].Goal)
	assert.Equal(t, model.VerdictMetOrAbove, sc.Slots[9].Verdict)
	assert.Equal(t, 5.0, sc.Slots[8].Goal)
}
