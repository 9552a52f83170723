package model

// AggregatedTotal is the summed count of one (scope, shift) bucket.
type AggregatedTotal struct {
	ScopeKey string    `json:"scope"`
	Shift    ShiftName `json:"shift"`
	Total    int       `json:"total"`
}
