package app

import (
	"time"

	"go.uber.org/fx"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/app/appcontext"
	"exusiai.dev/shiftboard/internal/controller"
	"exusiai.dev/shiftboard/internal/infra"
	"exusiai.dev/shiftboard/internal/pkg/logger"
	"exusiai.dev/shiftboard/internal/repo"
	"exusiai.dev/shiftboard/internal/server"
	"exusiai.dev/shiftboard/internal/service"
	"exusiai.dev/shiftboard/internal/workers/calcwkr"
	"exusiai.dev/shiftboard/internal/workers/syncwkr"
)

func Options(ctx appcontext.Ctx, additionalOpts ...fx.Option) []fx.Option {
	conf, err := appconfig.Parse(ctx)
	if err != nil {
		panic(err)
	}

	// logger and configuration are the only two things that are not in the fx graph
	// because some other packages need them to be initialized before fx starts
	logger.Configure(conf)

	baseOpts := []fx.Option{
		// fx meta
		fx.WithLogger(logger.Fx),

		// Misc
		fx.Supply(conf),

		// Shift calendar and station table, shared by every component
		fx.Provide(appconfig.Schedule),
		fx.Provide(appconfig.Grouping),

		// Infrastructures
		infra.Module(),

		// Repositories
		repo.Module(),

		// Services
		service.Module(),

		// invoked before controllers so that handlers registered later report to Sentry
		fx.Invoke(infra.SentryInit),
	}

	switch ctx.Env {
	case appcontext.EnvServer:
		baseOpts = append(baseOpts,
			// Servers
			server.Module(),

			// Controllers
			controller.Module(),

			// Workers
			fx.Invoke(calcwkr.Start),
			fx.Invoke(syncwkr.Start),
		)
	case appcontext.EnvWorker:
		baseOpts = append(baseOpts, fx.Invoke(calcwkr.Start))
	}

	baseOpts = append(baseOpts,
		// fx Extra Options
		fx.StartTimeout(10*time.Second),
		// upper bound for fiber's Shutdown and an in-flight worker cycle
		fx.StopTimeout(5*time.Minute),
	)

	return append(baseOpts, additionalOpts...)
}

func New(ctx appcontext.Ctx, additionalOpts ...fx.Option) *fx.App {
	return fx.New(Options(ctx, additionalOpts...)...)
}
