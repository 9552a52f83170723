package service

import (
	"go.uber.org/fx"

	"exusiai.dev/shiftboard/internal/repo"
)

func Module() fx.Option {
	return fx.Module("service", fx.Provide(
		func(u *repo.Upstream) GoalSource { return u },
		func(u *repo.Upstream) RecordSource { return u },
		func(u *repo.Upstream) UpstreamPinger { return u },
		func(u *repo.Upstream) ScrapSource { return u },
		func(a *repo.Archive) ArchiveStore { return a },
		NewGoal,
		NewProduction,
		NewPublisher,
		NewSnapshot,
		NewArchiver,
		NewHealth,
		NewScrap,
	))
}
