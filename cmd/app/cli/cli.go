package cli

import (
	"context"

	"go.uber.org/fx"

	"exusiai.dev/shiftboard/internal/app"
	"exusiai.dev/shiftboard/internal/app/appcontext"
)

func Start(module fx.Option) error {
	return app.New(appcontext.Declare(appcontext.EnvCLI), module).Start(context.Background())
}

// DepsFn builds the CLI dependency graph lazily, when the command runs.
func DepsFn[T any]() func() (T, error) {
	return func() (T, error) {
		var deps T
		err := Start(fx.Populate(&deps))
		return deps, err
	}
}
