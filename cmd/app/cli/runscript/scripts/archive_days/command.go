package script_archive_days

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"exusiai.dev/shiftboard/internal/service"
)

type CommandDeps struct {
	fx.In

	SnapshotService *service.Snapshot
	ArchiveService  *service.Archiver
}

func Command(depsFn func() (CommandDeps, error)) *cli.Command {
	return &cli.Command{
		Name:        "archive_days",
		Description: "archive closed production days from the lab API history, e.g. after an outage",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "first production day (YYYY-MM-DD)", Required: true},
			&cli.StringFlag{Name: "to", Usage: "last production day (YYYY-MM-DD)", Required: true},
			&cli.StringSliceFlag{Name: "mode", Usage: "grouping modes to archive", Value: cli.NewStringSlice("machine", "station")},
		},
		Action: func(ctx *cli.Context) error {
			deps, err := depsFn()
			if err != nil {
				return err
			}
			return run(ctx, deps, ctx.String("from"), ctx.String("to"), ctx.StringSlice("mode"))
		},
	}
}
