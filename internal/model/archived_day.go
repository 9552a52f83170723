package model

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// ArchivedDay keeps the final snapshot of a closed production day.
type ArchivedDay struct {
	bun.BaseModel `bun:"archived_days,alias:ad"`

	ArchivedDayID int             `bun:",pk,autoincrement" json:"id"`
	Anchor        time.Time       `bun:"anchor,notnull" json:"anchor"`
	Mode          string          `bun:"mode,notnull" json:"mode"`
	Fingerprint   string          `bun:"fingerprint" json:"fingerprint"`
	Content       json.RawMessage `bun:"content,type:jsonb" json:"-"`
	CreatedAt     time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// ShiftSummary is one flattened (day, scope, shift) row, kept alongside the
// archived snapshot for reporting queries.
type ShiftSummary struct {
	bun.BaseModel `bun:"shift_summaries,alias:ss"`

	ShiftSummaryID int       `bun:",pk,autoincrement" json:"id"`
	Anchor         time.Time `bun:"anchor,notnull" json:"anchor"`
	Mode           string    `bun:"mode,notnull" json:"mode"`
	ScopeKey       string    `bun:"scope_key,notnull" json:"scopeKey"`
	ScopeKind      ScopeKind `bun:"scope_kind,notnull" json:"scopeKind"`
	Shift          ShiftName `bun:"shift,notnull" json:"shift"`
	Total          int       `bun:"total" json:"total"`
	Goal           float64   `bun:"goal" json:"goal"`
	GoalDefined    bool      `bun:"goal_defined" json:"goalDefined"`
	Verdict        Verdict   `bun:"verdict" json:"verdict"`
}
