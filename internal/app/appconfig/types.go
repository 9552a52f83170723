package appconfig

import (
	"fmt"
	"strings"

	"exusiai.dev/shiftboard/internal/pkg/shiftday"
)

type ClockWindowList []shiftday.ClockWindow

func (l *ClockWindowList) Decode(value string) error {
	*l = ClockWindowList{}
	for _, raw := range strings.Split(value, ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		w, err := shiftday.ParseClockWindow(raw)
		if err != nil {
			return fmt.Errorf("invalid exclusion windows: expect a `,` separated list of HH:MM-HH:MM windows, but got: %s (%w)", value, err)
		}
		*l = append(*l, w)
	}
	return nil
}
