package schedule

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "exusiai.dev/shiftboard/cmd/app/cli"
	v1 "exusiai.dev/shiftboard/internal/controller/v1"
	"exusiai.dev/shiftboard/internal/pkg/shiftday"
)

type CommandDeps struct {
	fx.In

	Schedule *shiftday.Schedule
}

func Command() *cli.Command {
	depsFn := cliapp.DepsFn[CommandDeps]()
	return &cli.Command{
		Name:  "schedule",
		Usage: "validate the configured schedule and print a resolved production day",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "production day (YYYY-MM-DD); the current day when empty"},
		},
		Action: func(c *cli.Context) error {
			deps, err := depsFn()
			if err != nil {
				return err
			}

			now := time.Now()
			day := deps.Schedule.Resolve(now)
			if date := c.String("date"); date != "" {
				if day, err = deps.Schedule.ParseDate(date); err != nil {
					return err
				}
			}
			return Print(os.Stdout, v1.Describe(deps.Schedule, day, now))
		},
	}
}

func Print(w io.Writer, r *v1.ScheduleResponse) error {
	fmt.Fprintf(w, "schedule %s (%s), production day ending %s\n", r.Version, r.Timezone, r.Date)
	for _, sh := range r.Day.Shifts {
		fmt.Fprintf(w, "  %-10s %s -> %s  %4.1fh  %s\n",
			sh.Name, sh.Start.Format("01-02 15:04"), sh.End.Format("01-02 15:04"), sh.NominalHours, sh.State)
	}
	if len(r.Exclusions) > 0 {
		fmt.Fprintf(w, "excluded windows: %s\n", strings.Join(r.Exclusions, ", "))
	}
	if r.Rule != "" {
		fmt.Fprintf(w, "exclusion rule: %s\n", r.Rule)
	}
	return nil
}
