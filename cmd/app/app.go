package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"exusiai.dev/shiftboard/cmd/app/cli/runscript"
	"exusiai.dev/shiftboard/cmd/app/cli/schedule"
	"exusiai.dev/shiftboard/cmd/app/cli/snapshot"
	"exusiai.dev/shiftboard/cmd/app/server"
	"exusiai.dev/shiftboard/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        "shiftboard",
		Description: "Shift attainment board for the lab floor. Reads production hits and goals from the lab API, splits them into the night, morning and afternoon shifts of the 22:00 production day and serves the tables over HTTP.",
		Version:     bininfo.Version,
		Commands: []*cli.Command{
			server.Command(),
			server.WorkerCommand(),
			snapshot.Command(),
			schedule.Command(),
			runscript.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
