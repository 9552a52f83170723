package model

type Verdict string

const (
	VerdictBelow      Verdict = "BELOW"
	VerdictMetOrAbove Verdict = "MET_OR_ABOVE"
	VerdictNoActivity Verdict = "NO_ACTIVITY"
)

// Color returns the traffic-light color the shop floor screens use for a verdict.
func (v Verdict) Color() string {
	switch v {
	case VerdictMetOrAbove:
		return "green"
	case VerdictBelow:
		return "red"
	default:
		return "black"
	}
}
