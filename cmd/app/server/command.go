package server

import "github.com/urfave/cli/v2"

func Command() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "start server and, unless SHIFTBOARD_WORKER_ENABLED=false, the recompute worker",
		Action: func(c *cli.Context) error {
			Run()
			return nil
		},
	}
}

func WorkerCommand() *cli.Command {
	return &cli.Command{
		Name:  "worker",
		Usage: "run the recompute worker only",
		Action: func(c *cli.Context) error {
			RunWorker()
			return nil
		},
	}
}
