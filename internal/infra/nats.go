package infra

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"exusiai.dev/shiftboard/internal/app/appconfig"
)

const SnapshotStream = "shiftboard-snapshots"

// NATS connects to NATS and makes sure the snapshot stream exists. Both
// return values are nil when no URL is configured.
func NATS(conf *appconfig.Config, lc fx.Lifecycle) (*nats.Conn, nats.JetStreamContext, error) {
	if conf.NatsURL == "" {
		log.Info().
			Str("evt.name", "infra.nats.disabled").
			Msg("nats is disabled: no url configured")
		return nil, nil, nil
	}

	errorHandler := func(conn *nats.Conn, sub *nats.Subscription, err error) {
		ev := log.Error().
			Str("evt.name", "nats.error").
			Err(err).
			Str("conn.url", conn.ConnectedUrlRedacted())
		if sub != nil {
			ev = ev.Str("sub.subject", sub.Subject)
		}
		ev.Msg("nats error")
	}

	nc, err := nats.Connect(conf.NatsURL, nats.Name("shiftboard"), nats.PingInterval(time.Second*20), nats.ErrorHandler(errorHandler))
	if err != nil {
		log.Error().Err(err).Msg("infra: nats: failed to connect to NATS")
		return nil, nil, err
	}

	js, err := nc.JetStream(nats.PublishAsyncMaxPending(128))
	if err != nil {
		log.Error().Err(err).Msg("infra: nats: failed to initialize NATS JetStream")
		return nil, nil, err
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:              SnapshotStream,
		Subjects:          []string{conf.NatsSubject + ".>"},
		Retention:         nats.LimitsPolicy,
		Discard:           nats.DiscardOld,
		Storage:           nats.FileStorage,
		Replicas:          1,
		MaxMsgsPerSubject: 16,
		Duplicates:        time.Minute * 10,
	})
	if err != nil {
		log.Warn().Err(err).Msg("infra: nats: failed to create jetstream stream: is it already created?")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return nc.Drain()
		},
	})

	return nc, js, nil
}
