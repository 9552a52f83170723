package snapshot

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/shiftboard/internal/model"
)

func TestRender(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	anchor := time.Date(2024, time.March, 9, 22, 0, 0, 0, loc)
	snap := &model.Snapshot{
		Mode:       "station",
		ComputedAt: time.Now(),
		Stale:      true,
		Day: model.DayView{
			Start: anchor,
			End:   anchor.Add(24 * time.Hour),
			Shifts: []model.ShiftView{
				{Name: model.ShiftNight, Start: anchor},
				{Name: model.ShiftMorning, Start: anchor.Add(8*time.Hour + 30*time.Minute)},
				{Name: model.ShiftAfternoon, Start: anchor.Add(16*time.Hour + 30*time.Minute)},
			},
		},
		Scopes: []*model.ScopeReport{
			{
				Key:          "Generado",
				HourlyTarget: null.FloatFrom(10),
				Shifts: []model.ShiftCell{
					{Shift: model.ShiftNight, Total: 1200, LiveGoal: 80, Verdict: model.VerdictMetOrAbove},
					{Shift: model.ShiftMorning, Total: 30, LiveGoal: 80, Verdict: model.VerdictBelow},
					{Shift: model.ShiftAfternoon, Verdict: model.VerdictNoActivity},
				},
				DayTotal:    1230,
				DayLiveGoal: 160,
				DayVerdict:  model.VerdictMetOrAbove,
			},
			{Key: "Surtido"},
		},
		ShiftTotals: []model.ShiftTotal{{Shift: model.ShiftNight, Total: 1200}, {Shift: model.ShiftMorning, Total: 30}, {Shift: model.ShiftAfternoon}},
		GrandTotal:  1230,
		Diagnostics: model.Diagnostics{Events: 3, Classified: 2, Malformed: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, snap))
	out := buf.String()

	assert.Contains(t, out, "2024-03-09 22:00 -> 2024-03-10 22:00")
	assert.Contains(t, out, "(stale)")
	assert.Contains(t, out, "MORNING 06:30")
	assert.Contains(t, out, "1,200/80 ok")
	assert.Contains(t, out, "30/80 low")
	assert.Contains(t, out, "n/d")
	assert.Contains(t, out, "1,230")
	assert.Contains(t, out, "1 malformed")
}
