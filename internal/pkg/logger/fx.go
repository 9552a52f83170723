package logger

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx/fxevent"
)

// fxLogger routes fx lifecycle events to zerolog. Provide/invoke chatter goes
// to trace level so that only failures and lifecycle transitions show up by
// default.
type fxLogger struct {
	l zerolog.Logger
}

func Fx() fxevent.Logger {
	return &fxLogger{
		l: log.Logger.With().Str("evt.name", "fx.init").Logger(),
	}
}

func (f *fxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		f.l.Trace().Str("callee", e.FunctionName).Str("caller", e.CallerName).Msg("OnStart hook executing")
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			f.l.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("OnStart hook failed")
			return
		}
		f.l.Debug().Str("callee", e.FunctionName).Dur("runtime", e.Runtime).Msg("OnStart hook executed")
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			f.l.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("OnStop hook failed")
			return
		}
		f.l.Debug().Str("callee", e.FunctionName).Dur("runtime", e.Runtime).Msg("OnStop hook executed")
	case *fxevent.Supplied:
		f.err(e.Err, "supply failed").Str("type", e.TypeName).Msg("supplied")
	case *fxevent.Provided:
		f.err(e.Err, "provide failed").Str("constructor", e.ConstructorName).
			Str("types", strings.Join(e.OutputTypeNames, ", ")).Msg("provided")
	case *fxevent.Invoked:
		f.err(e.Err, "invoke failed").Str("function", e.FunctionName).Msg("invoked")
	case *fxevent.Started:
		if e.Err != nil {
			f.l.Error().Err(e.Err).Msg("start failed")
			return
		}
		f.l.Info().Msg("started")
	case *fxevent.Stopped:
		if e.Err != nil {
			f.l.Error().Err(e.Err).Msg("stop failed")
			return
		}
		f.l.Info().Msg("stopped")
	case *fxevent.RollingBack:
		f.l.Error().Err(e.StartErr).Msg("start failed, rolling back")
	}
}

// err logs at error level when err is set, otherwise at trace.
func (f *fxLogger) err(err error, msg string) *zerolog.Event {
	if err != nil {
		return f.l.Error().Err(err).Str("reason", msg)
	}
	return f.l.Trace()
}
