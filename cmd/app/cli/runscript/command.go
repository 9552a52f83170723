package runscript

import (
	"github.com/urfave/cli/v2"

	cliapp "exusiai.dev/shiftboard/cmd/app/cli"
	script_archive_days "exusiai.dev/shiftboard/cmd/app/cli/runscript/scripts/archive_days"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:        "run-script",
		Description: "run maintenance go scripts",
		Subcommands: []*cli.Command{
			script_archive_days.Command(cliapp.DepsFn[script_archive_days.CommandDeps]()),
		},
	}
}
