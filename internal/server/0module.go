package server

import (
	"go.uber.org/fx"

	"exusiai.dev/shiftboard/internal/server/httpserver"
	"exusiai.dev/shiftboard/internal/server/svr"
)

func Module() fx.Option {
	return fx.Module("server",
		fx.Provide(httpserver.Create),
		fx.Provide(svr.CreateEndpointGroups))
}
