package attain

import "exusiai.dev/shiftboard/internal/model"

// Evaluate compares an observed total with a goal. A zero total is always
// NO_ACTIVITY, whatever the goal.
func Evaluate(total int, goal float64) model.Verdict {
	switch {
	case total == 0:
		return model.VerdictNoActivity
	case float64(total) >= goal:
		return model.VerdictMetOrAbove
	default:
		return model.VerdictBelow
	}
}
