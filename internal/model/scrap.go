package model

import (
	"time"

	"gopkg.in/guregu/null.v3"
)

// ScrapReason is one (hour, reason) scrap count as reported by the lab API.
// The lab only reports reasons of the running production day, so Hour carries
// no date.
type ScrapReason struct {
	Hour   string `json:"hour" msgpack:"hour"`
	Reason string `json:"reason" msgpack:"reason"`
	Total  int    `json:"total" msgpack:"total"`
}

// ScrapReport compares scrapped pieces against produced pieces over one
// production day. Every rate is a percentage of production and is null when
// nothing was produced in its window.
type ScrapReport struct {
	ComputedAt time.Time   `json:"computedAt" msgpack:"computedAt"`
	Day        DayView     `json:"day" msgpack:"day"`
	Scrap      int         `json:"scrap" msgpack:"scrap"`
	Production int         `json:"production" msgpack:"production"`
	ScrapRate  null.Float  `json:"scrapRate" msgpack:"scrapRate"`
	Shifts     []ScrapCell `json:"shifts" msgpack:"shifts"`
	Slots      []ScrapSlot `json:"slots" msgpack:"slots"`
	// Latest is the most recent slot with scrap, null before the first one.
	Latest  *ScrapSlot         `json:"latest" msgpack:"latest"`
	Reasons []ScrapReasonGroup `json:"reasons" msgpack:"reasons"`

	ScrapDiagnostics      Diagnostics `json:"scrapDiagnostics" msgpack:"scrapDiagnostics"`
	ProductionDiagnostics Diagnostics `json:"productionDiagnostics" msgpack:"productionDiagnostics"`
}

type ScrapCell struct {
	Shift      ShiftName  `json:"shift" msgpack:"shift"`
	Scrap      int        `json:"scrap" msgpack:"scrap"`
	Production int        `json:"production" msgpack:"production"`
	Rate       null.Float `json:"rate" msgpack:"rate"`
}

type ScrapSlot struct {
	Index      int        `json:"index" msgpack:"index"`
	Shift      ShiftName  `json:"shift" msgpack:"shift"`
	Start      time.Time  `json:"start" msgpack:"start"`
	End        time.Time  `json:"end" msgpack:"end"`
	Scrap      int        `json:"scrap" msgpack:"scrap"`
	Production int        `json:"production" msgpack:"production"`
	Rate       null.Float `json:"rate" msgpack:"rate"`
}

// ScrapReasonGroup lists the scrap reasons reported within one hour slot.
type ScrapReasonGroup struct {
	Slot    int                `json:"slot" msgpack:"slot"`
	Start   time.Time          `json:"start" msgpack:"start"`
	End     time.Time          `json:"end" msgpack:"end"`
	Total   int                `json:"total" msgpack:"total"`
	Reasons []ScrapReasonCount `json:"reasons" msgpack:"reasons"`
}

type ScrapReasonCount struct {
	Reason string `json:"reason" msgpack:"reason"`
	Total  int    `json:"total" msgpack:"total"`
}
