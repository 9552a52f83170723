package snapshot

import (
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "exusiai.dev/shiftboard/cmd/app/cli"
	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/pkg/board"
	"exusiai.dev/shiftboard/internal/service"
)

type CommandDeps struct {
	fx.In

	SnapshotService *service.Snapshot
}

func Command() *cli.Command {
	depsFn := cliapp.DepsFn[CommandDeps]()
	return &cli.Command{
		Name:  "snapshot",
		Usage: "compute one snapshot and print it as a table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "production day (YYYY-MM-DD); the current day when empty"},
			&cli.StringFlag{Name: "mode", Usage: "machine, station or prefix", Value: string(board.ModeMachine)},
		},
		Action: func(c *cli.Context) error {
			mode, err := board.ParseMode(c.String("mode"))
			if err != nil {
				return err
			}
			deps, err := depsFn()
			if err != nil {
				return err
			}

			var snap *model.Snapshot
			if date := c.String("date"); date != "" {
				snap, err = deps.SnapshotService.ForDate(c.Context, date, mode)
			} else {
				snap, err = deps.SnapshotService.Refresh(c.Context, time.Now(), mode)
			}
			if err != nil {
				return err
			}
			return Render(os.Stdout, snap)
		},
	}
}
