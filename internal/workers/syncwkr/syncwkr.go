// Package syncwkr keeps the latest snapshots of a server-only instance in
// step with the snapshots published by the instance running the recompute
// worker.
package syncwkr

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"exusiai.dev/shiftboard/internal/app/appconfig"
	"exusiai.dev/shiftboard/internal/model"
	"exusiai.dev/shiftboard/internal/service"
)

type WorkerDeps struct {
	fx.In
	Config   *appconfig.Config
	Snapshot *service.Snapshot
	NatsJS   nats.JetStreamContext
}

type Adopter interface {
	Adopt(snap *model.Snapshot) bool
}

type Worker struct {
	// count is the number of snapshots adopted so far
	count int

	subject string
	adopter Adopter
}

func New(conf *appconfig.Config, adopter Adopter) *Worker {
	return &Worker{
		subject: conf.NatsSubject + ".*",
		adopter: adopter,
	}
}

func Start(deps WorkerDeps, lc fx.Lifecycle) {
	if deps.Config.WorkerEnabled || deps.NatsJS == nil {
		return
	}

	w := New(deps.Config, deps.Snapshot)
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := w.Consumer(ctx, deps.NatsJS); err != nil && !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Msg("snapshot sync worker stopped")
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func (w *Worker) Consumer(ctx context.Context, js nats.JetStreamContext) error {
	msgChan := make(chan *nats.Msg, 16)

	sub, err := js.ChanSubscribe(w.subject, msgChan, nats.DeliverLastPerSubject(), nats.AckExplicit(), nats.AckWait(time.Second*10))
	if err != nil {
		log.Err(err).Str("subject", w.subject).Msg("failed to subscribe to snapshot changes")
		return err
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			log.Warn().Err(err).Msg("failed to unsubscribe from snapshot changes")
		}
	}()

	for {
		select {
		case msg := <-msgChan:
			if err := w.Handle(msg.Data); err != nil {
				log.Error().Err(err).Str("subject", msg.Subject).Msg("failed to handle snapshot change")
			}
			if err := msg.Ack(); err != nil {
				log.Error().Err(err).Msg("failed to ack")
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *Worker) Handle(data []byte) error {
	snap := &model.Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return errors.Wrap(err, "failed to decode snapshot")
	}
	if w.adopter.Adopt(snap) {
		w.count++
		log.Debug().
			Str("mode", snap.Mode).
			Str("fingerprint", snap.Fingerprint).
			Msg("adopted published snapshot")
	}
	return nil
}

func (w *Worker) Count() int {
	return w.count
}
