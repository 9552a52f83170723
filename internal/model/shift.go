package model

type ShiftName string

const (
	ShiftNight     ShiftName = "night"
	ShiftMorning   ShiftName = "morning"
	ShiftAfternoon ShiftName = "afternoon"
)

// ShiftNames lists the shifts in the order they occur within a production day.
var ShiftNames = []ShiftName{ShiftNight, ShiftMorning, ShiftAfternoon}

func (n ShiftName) Valid() bool {
	switch n {
	case ShiftNight, ShiftMorning, ShiftAfternoon:
		return true
	}
	return false
}

type ShiftState string

const (
	ShiftPending    ShiftState = "pending"
	ShiftInProgress ShiftState = "in_progress"
	ShiftCompleted  ShiftState = "completed"
)
