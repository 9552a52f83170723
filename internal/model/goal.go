package model

type GoalEntry struct {
	// MachineKey is the machine name as configured upstream. It is normalized
	// when loaded into a goal table.
	MachineKey   string  `json:"name"`
	HourlyTarget float64 `json:"meta"`
	// Family is the upstream goal family (tallados, pulidos, ...) the entry came from.
	Family string `json:"family,omitempty"`
}
