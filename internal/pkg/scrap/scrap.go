// Package scrap relates scrapped pieces to produced pieces per hour slot, per
// shift and over a whole production day.
package scrap

import (
	"math"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/board"
	"exusiai.dev/shiftboard/internal/pkg/shiftday"
	"exusiai.dev/shiftboard/internal/pkg/stations"
	"exusiai.dev/shiftboard/internal/pkg/tally"
)

const (
	scrapScope      = "scrap"
	productionScope = "production"

	dateLayout = "2006-01-02"
)

type Input struct {
	// Now is captured once by the caller. A zero Now means the clock could
	// not be read.
	Now        time.Time
	Day        shiftday.ProductionDay
	Scrap      []model.ProductionEvent
	Production []model.ProductionEvent
	// Reasons carry an hour only and are placed within Day.
	Reasons []model.ScrapReason
}

// Compute builds the scrap report of in.Day. Events outside the day are
// counted in the diagnostics and left out, the same way the production board
// treats them.
func Compute(in Input) (*model.ScrapReport, error) {
	if in.Now.IsZero() {
		return nil, board.ErrClockUnavailable
	}
	day := in.Day
	if len(day.Shifts) == 0 || day.Schedule() == nil || day.Schedule().Location == nil {
		return nil, errors.Wrap(board.ErrClockUnavailable, "no production day")
	}
	now := in.Now.In(day.Schedule().Location)

	scrap := tally.Aggregate(in.Scrap, day, constant(scrapScope), tally.Seed(scrapScope))
	prod := tally.Aggregate(in.Production, day, constant(productionScope), tally.Seed(productionScope))

	r := &model.ScrapReport{
		ComputedAt:            now,
		Day:                   day.View(now),
		Scrap:                 scrap.GrandTotal(),
		Production:            prod.GrandTotal(),
		ScrapDiagnostics:      scrap.Diagnostics,
		ProductionDiagnostics: prod.Diagnostics,
	}
	r.ScrapRate = Rate(r.Scrap, r.Production)

	for _, shift := range model.ShiftNames {
		s, p := scrap.Total(scrapScope, shift), prod.Total(productionScope, shift)
		r.Shifts = append(r.Shifts, model.ScrapCell{Shift: shift, Scrap: s, Production: p, Rate: Rate(s, p)})
	}

	scrapSlots, prodSlots := scrap.Slots(scrapScope), prod.Slots(productionScope)
	latest := -1
	for i, sl := range day.Slots() {
		r.Slots = append(r.Slots, model.ScrapSlot{
			Index:      sl.Index,
			Shift:      sl.Shift,
			Start:      sl.Start,
			End:        sl.End,
			Scrap:      scrapSlots[i],
			Production: prodSlots[i],
			Rate:       Rate(scrapSlots[i], prodSlots[i]),
		})
		if scrapSlots[i] > 0 {
			latest = i
		}
	}
	if latest >= 0 {
		l := r.Slots[latest]
		r.Latest = &l
	}

	r.Reasons = Reasons(in.Reasons, day)
	return r, nil
}

// Rate is scrap as a percentage of production, rounded to two decimals. It is
// null when nothing was produced.
func Rate(scrap, production int) null.Float {
	if production <= 0 {
		return null.NewFloat(0, false)
	}
	return null.FloatFrom(math.Round(float64(scrap)*10000/float64(production)) / 100)
}

// Reasons groups scrap reasons by the hour slot of day they fall in, newest
// slot first. Within a slot, reasons are summed by name and listed by
// descending total.
func Reasons(reasons []model.ScrapReason, day shiftday.ProductionDay) []model.ScrapReasonGroup {
	slots := day.Slots()
	groups := make(map[int]map[string]int)
	for _, r := range reasons {
		slot, ok := place(r, day)
		if !ok || slot < 0 || slot >= len(slots) {
			continue
		}
		if groups[slot] == nil {
			groups[slot] = make(map[string]int)
		}
		groups[slot][r.Reason] += r.Total
	}

	out := make([]model.ScrapReasonGroup, 0, len(groups))
	for slot, byReason := range groups {
		g := model.ScrapReasonGroup{
			Slot:  slot,
			Start: slots[slot].Start,
			End:   slots[slot].End,
			Total: lo.Sum(lo.Values(byReason)),
		}
		for reason, total := range byReason {
			g.Reasons = append(g.Reasons, model.ScrapReasonCount{Reason: reason, Total: total})
		}
		sort.Slice(g.Reasons, func(i, j int) bool {
			if g.Reasons[i].Total != g.Reasons[j].Total {
				return g.Reasons[i].Total > g.Reasons[j].Total
			}
			return g.Reasons[i].Reason < g.Reasons[j].Reason
		})
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot > out[j].Slot })
	return out
}

// place finds the slot of an hour-only reason: hours from the anchor on belong
// to the anchor date, earlier hours to the date the day ends on.
func place(r model.ScrapReason, day shiftday.ProductionDay) (int, bool) {
	for _, date := range []string{day.Anchor.Format(dateLayout), day.Date()} {
		p, outcome := day.Locate(model.ProductionEvent{MachineName: scrapScope, Date: date, TimeOfDay: r.Hour, Count: r.Total})
		switch outcome {
		case shiftday.Classified:
			return p.Slot, true
		case shiftday.OutOfDay:
			continue
		}
		return -1, false
	}
	return -1, false
}

func constant(scope string) stations.GroupFunc {
	return func(string) (string, bool) {
		return scope, true
	}
}
