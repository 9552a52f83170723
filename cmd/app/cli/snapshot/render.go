package snapshot

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"exusiai.dev/shiftboard/internal/model"
)

// Render writes snap as an aligned table, one row per scope and one column per
// shift, each cell showing total/goal and the verdict.
func Render(w io.Writer, snap *model.Snapshot) error {
	stale := ""
	if snap.Stale {
		stale = " (stale)"
	}
	fmt.Fprintf(w, "production day %s -> %s, mode %s, computed %s%s\n\n",
		snap.Day.Start.Format("2006-01-02 15:04"),
		snap.Day.End.Format("2006-01-02 15:04"),
		snap.Mode,
		humanize.Time(snap.ComputedAt),
		stale)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"SCOPE", "GOAL/H"}
	for _, sh := range snap.Day.Shifts {
		header = append(header, strings.ToUpper(string(sh.Name))+" "+sh.Start.Format("15:04"))
	}
	header = append(header, "DAY")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, sc := range snap.Scopes {
		row := []string{sc.Key, target(sc)}
		for _, c := range sc.Shifts {
			row = append(row, cell(c.Total, c.LiveGoal, c.Verdict))
		}
		row = append(row, cell(sc.DayTotal, sc.DayLiveGoal, sc.DayVerdict))
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	totals := []string{"TOTAL", ""}
	for _, st := range snap.ShiftTotals {
		totals = append(totals, humanize.Comma(int64(st.Total)))
	}
	totals = append(totals, humanize.Comma(int64(snap.GrandTotal)))
	fmt.Fprintln(tw, strings.Join(totals, "\t"))
	if err := tw.Flush(); err != nil {
		return err
	}

	d := snap.Diagnostics
	_, err := fmt.Fprintf(w, "\n%s events: %s classified, %d malformed, %d excluded, %d out of day, %d ungrouped\n",
		humanize.Comma(int64(d.Events)), humanize.Comma(int64(d.Classified)), d.Malformed, d.Excluded, d.OutOfDay, d.Ungrouped)
	return err
}

func target(sc *model.ScopeReport) string {
	if !sc.HourlyTarget.Valid {
		return "n/d"
	}
	return humanize.Ftoa(sc.HourlyTarget.Float64)
}

func cell(total int, goal float64, v model.Verdict) string {
	return fmt.Sprintf("%s/%s %s", humanize.Comma(int64(total)), humanize.Ftoa(goal), marker(v))
}

func marker(v model.Verdict) string {
	switch v {
	case model.VerdictMetOrAbove:
		return "ok"
	case model.VerdictBelow:
		return "low"
	}
	return "-"
}
