package shiftday

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"github.com/pkg/errors"
)

// ClockWindow is a wall-clock window in minutes after midnight, [From, To).
// When From > To the window wraps midnight, e.g. 23:00-06:30.
type ClockWindow struct {
	From int
	To   int
}

func (w ClockWindow) Contains(minutes int) bool {
	if w.From <= w.To {
		return minutes >= w.From && minutes < w.To
	}
	return minutes >= w.From || minutes < w.To
}

func (w ClockWindow) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.From/60, w.From%60, w.To/60, w.To%60)
}

// ParseClockWindow parses "HH:MM-HH:MM".
func ParseClockWindow(s string) (ClockWindow, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return ClockWindow{}, errors.Errorf("invalid clock window %q: expect HH:MM-HH:MM", s)
	}
	f, err := parseClock(from)
	if err != nil {
		return ClockWindow{}, errors.Wrapf(err, "invalid clock window %q", s)
	}
	t, err := parseClock(to)
	if err != nil {
		return ClockWindow{}, errors.Wrapf(err, "invalid clock window %q", s)
	}
	if f == t {
		return ClockWindow{}, errors.Errorf("invalid clock window %q: empty", s)
	}
	return ClockWindow{From: f, To: t}, nil
}

func parseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, errors.Errorf("invalid clock %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, errors.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, errors.Errorf("invalid minute in %q", s)
	}
	return (h*60 + m) % (24 * 60), nil
}

// ExclusionRule is a boolean expression evaluated per event. Events for which
// it yields true are excluded from all totals. Available variables: hour,
// minute, minutes (after midnight), machine and count.
type ExclusionRule struct {
	Source  string
	program *vm.Program
}

func ruleEnv(hour, minute int, machine string, count int) map[string]interface{} {
	return map[string]interface{}{
		"hour":    hour,
		"minute":  minute,
		"minutes": hour*60 + minute,
		"machine": machine,
		"count":   count,
	}
}

func CompileExclusionRule(src string) (*ExclusionRule, error) {
	program, err := expr.Compile(src, expr.Env(ruleEnv(0, 0, "", 0)), expr.AsBool())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid exclusion rule %q", src)
	}
	return &ExclusionRule{Source: src, program: program}, nil
}

func (r *ExclusionRule) Match(hour, minute int, machine string, count int) (bool, error) {
	out, err := expr.Run(r.program, ruleEnv(hour, minute, machine, count))
	if err != nil {
		return false, err
	}
	matched, _ := out.(bool)
	return matched, nil
}
