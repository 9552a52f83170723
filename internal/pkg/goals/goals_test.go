package goals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/attain"
	"exusiai.dev/shiftboard/internal/pkg/shiftday"
	"exusiai.dev/shiftboard/internal/pkg/stations"
)

var plant = time.FixedZone("CST", -6*60*60)

func at(d, hh, mm int) time.Time {
	return time.Date(2024, time.March, d, hh, mm, 0, 0, plant)
}

func morningShift(t *testing.T) shiftday.ShiftInstance {
	s := shiftday.DefaultSchedule(plant, shiftday.DefaultBuffer, shiftday.DefaultNominal)
	sh, ok := s.ResolveDate(2024, time.March, 10).Shift(model.ShiftMorning)
	require.True(t, ok)
	return sh
}

func TestNormalizedLookup(t *testing.T) {
	table := NewTable(nil, model.GoalEntry{MachineKey: " 320 deblocking  1", HourlyTarget: 10, Family: "terminados"})

	target := table.HourlyTarget("320 DEBLOCKING 1")
	assert.Equal(t, Target{Value: 10, Defined: true}, target)

	assert.Equal(t, Target{}, table.HourlyTarget("999 NOTHING"))
	assert.Equal(t, []string{"320 DEBLOCKING 1"}, table.Keys())
}

func TestLaterFamilyWins(t *testing.T) {
	table := NewTable(nil,
		model.GoalEntry{MachineKey: "254 IFLEX SRVR", HourlyTarget: 10, Family: "pulidos"},
		model.GoalEntry{MachineKey: "254 iflex srvr", HourlyTarget: 12, Family: "terminados"},
	)

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 12.0, table.HourlyTarget("254 IFLEX SRVR").Value)
	assert.Equal(t, "terminados", table.Entries()[0].Family)
}

func TestStationSum(t *testing.T) {
	table := NewTable(stations.Default(),
		model.GoalEntry{MachineKey: "241 GENERATOR 1", HourlyTarget: 6},
		model.GoalEntry{MachineKey: "242 GENERATOR 2", HourlyTarget: 4},
	)

	assert.Equal(t, Target{Value: 10, Defined: true}, table.HourlyTarget("Generado"))
	assert.Equal(t, Target{}, table.HourlyTarget("Pulido"))
}

func TestProrateCompletedShift(t *testing.T) {
	table := NewTable(nil, model.GoalEntry{MachineKey: "320 DEBLOCKING 1", HourlyTarget: 10})
	shift := morningShift(t)

	fig := Prorate(table.HourlyTarget("320 DEBLOCKING 1"), shift, at(10, 15, 0))

	assert.Equal(t, 80.0, fig.Full)
	assert.Equal(t, 80.0, fig.Live)
	assert.True(t, fig.Defined)
	assert.Equal(t, model.VerdictMetOrAbove, attain.Evaluate(85, fig.Full))
}

func TestProrateLive(t *testing.T) {
	shift := morningShift(t)
	target := Target{Value: 10, Defined: true}

	type testCase struct {
		now    time.Time
		expect float64
	}

	testCases := []testCase{
		{at(10, 5, 0), 0},
		{at(10, 6, 30), 0},
		{at(10, 7, 29), 0},
		{at(10, 7, 30), 10},
		{at(10, 10, 45), 40},
		{at(10, 14, 29), 70},
		{at(10, 14, 30), 80},
		{at(11, 3, 0), 80},
	}

	for _, tc := range testCases {
		fig := Prorate(target, shift, tc.now)
		assert.Equal(t, tc.expect, fig.Live, "now %s", tc.now)
		assert.Equal(t, 80.0, fig.Full)
	}
}

func TestElapsedHoursCappedAtNominal(t *testing.T) {
	s := shiftday.DefaultSchedule(plant, shiftday.DefaultBuffer, shiftday.DefaultNominal)
	afternoon, _ := s.ResolveDate(2024, time.March, 10).Shift(model.ShiftAfternoon)

	// afternoon spans 7h30m but is nominally 7h
	assert.Equal(t, 7.0, ElapsedHours(afternoon, at(10, 21, 45)))
	assert.Equal(t, 7.0, ElapsedHours(afternoon, at(10, 22, 0)))
}

func TestUndefinedGoal(t *testing.T) {
	fig := Prorate(Target{}, morningShift(t), at(10, 15, 0))
	assert.False(t, fig.Defined)
	assert.Equal(t, 0.0, fig.Full)
	assert.Equal(t, model.VerdictMetOrAbove, attain.Evaluate(5, fig.Full))
}
