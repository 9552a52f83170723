package script_archive_days

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"exusiai.dev/shiftboard/internal/pkg/board"
)

func run(ctx *cli.Context, deps CommandDeps, from, to string, modes []string) error {
	if !deps.ArchiveService.Enabled() {
		return errors.New("the archive is disabled: set SHIFTBOARD_POSTGRES_DSN and SHIFTBOARD_ARCHIVE_ENABLED")
	}

	schedule := deps.SnapshotService.Schedule()
	first, err := schedule.ParseDate(from)
	if err != nil {
		return errors.Wrap(err, "failed to parse --from")
	}
	last, err := schedule.ParseDate(to)
	if err != nil {
		return errors.Wrap(err, "failed to parse --to")
	}

	log.Info().Str("from", from).Str("to", to).Strs("modes", modes).Msg("running script")

	now := time.Now()
	archived := 0
	for day := first; !day.Anchor.After(last.Anchor); day = day.Next() {
		for _, m := range modes {
			mode, err := board.ParseMode(m)
			if err != nil {
				return err
			}
			saved, err := deps.ArchiveService.ArchiveDay(ctx.Context, day, mode, now)
			if err != nil {
				return errors.Wrapf(err, "failed to archive %s (%s)", day.Date(), mode)
			}
			if saved {
				archived++
			}
			log.Info().Str("date", day.Date()).Str("mode", string(mode)).Bool("saved", saved).Msg("processed production day")
		}
	}

	log.Info().Int("archived", archived).Msg("script finished")

	return nil
}
